package temporalx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

// NewClient dials Temporal, retrying per cfg.Dial. It returns a nil client
// when no address is configured.
func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (temporalsdkclient.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.Address) == "" {
		log.Warn("TEMPORAL_ADDRESS not set; Temporal disabled")
		return nil, nil
	}
	opts, err := clientOptions(cfg, log, cfg.Namespace)
	if err != nil {
		return nil, err
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	var c temporalsdkclient.Client
	err = cfg.Dial.Do(ctx, func(ctx context.Context, attempt int) error {
		dctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		dialed, err := temporalsdkclient.DialContext(dctx, opts)
		if err != nil {
			return err
		}
		if attempt > 1 {
			log.Info("Connected to Temporal", "address", cfg.Address, "namespace", cfg.Namespace, "attempts", attempt)
		}
		c = dialed
		return nil
	}, nil, func(attempt int, err error) {
		log.Warn("Temporal not reachable; retrying", "address", cfg.Address, "namespace", cfg.Namespace, "attempt", attempt, "error", err)
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial failed (address=%s namespace=%s): %w", cfg.Address, cfg.Namespace, err)
	}

	if cfg.AutoRegisterNamespace {
		if err := EnsureNamespace(ctx, cfg, log); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// EnsureNamespace registers cfg.Namespace when it does not exist yet. Managed
// namespaces are provisioned out of band.
func EnsureNamespace(ctx context.Context, cfg Config, log *logger.Logger) error {
	namespace := strings.TrimSpace(cfg.Namespace)
	if namespace == "" || strings.TrimSpace(cfg.Address) == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	b := cfg.NamespaceEnsure
	if b.MaxWait <= 0 {
		b.MaxWait = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, b.MaxWait)
	defer cancel()

	// No namespace header, so this works before the namespace exists.
	opts, err := clientOptions(cfg, log, "")
	if err != nil {
		return err
	}
	nsClient, err := temporalsdkclient.NewNamespaceClient(opts)
	if err != nil {
		return fmt.Errorf("temporal namespace ensure: init namespace client: %w", err)
	}
	defer nsClient.Close()

	err = b.Do(ctx, func(ctx context.Context, _ int) error {
		_, err := nsClient.Describe(ctx, namespace)
		var nfe *serviceerror.NamespaceNotFound
		if !errors.As(err, &nfe) {
			return err
		}
		err = nsClient.Register(ctx, &workflowservice.RegisterNamespaceRequest{
			Namespace:                        namespace,
			Description:                      "appealsync auto-registered namespace",
			WorkflowExecutionRetentionPeriod: durationpb.New(time.Duration(cfg.RetentionDays) * 24 * time.Hour),
		})
		var already *serviceerror.NamespaceAlreadyExists
		if err == nil || errors.As(err, &already) {
			if log != nil {
				log.Info("Registered Temporal namespace", "namespace", namespace, "retention_days", cfg.RetentionDays)
			}
			return nil
		}
		return err
	}, isRetryableRPC, func(attempt int, err error) {
		if log != nil {
			log.Warn("Temporal namespace ensure retrying", "namespace", namespace, "attempt", attempt, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("temporal namespace ensure (namespace=%s): %w", namespace, err)
	}
	return nil
}

func clientOptions(cfg Config, log *logger.Logger, namespace string) (temporalsdkclient.Options, error) {
	opts := temporalsdkclient.Options{HostPort: cfg.Address, Namespace: namespace}
	if log != nil {
		opts.Logger = log
	}
	if cfg.mtlsEnabled() {
		tlsCfg, err := loadTLSConfig(cfg)
		if err != nil {
			return opts, err
		}
		opts.ConnectionOptions.TLS = tlsCfg
	}
	return opts, nil
}

func isRetryableRPC(err error) bool {
	if err == nil {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}

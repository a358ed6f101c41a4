package temporalx

import (
	"time"

	"github.com/yungbote/appealsync-backend/internal/platform/envutil"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	// AutoRegisterNamespace is for self-hosted clusters only.
	AutoRegisterNamespace bool
	RetentionDays         int

	DialTimeout     time.Duration
	Dial            Backoff
	NamespaceEnsure Backoff
	WorkerStart     Backoff

	// ScheduleID names the interval schedule that starts the snapshot workflow.
	ScheduleID       string
	SnapshotInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Address:   envutil.String("TEMPORAL_ADDRESS", "", log),
		Namespace: envutil.String("TEMPORAL_NAMESPACE", "appealsync", log),
		TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "appealsync", log),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", "", log),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", "", log),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", "", log),

		AutoRegisterNamespace: envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false, log),
		RetentionDays:         clampRetention(envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7, log)),

		DialTimeout:     envutil.Seconds("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5, log),
		Dial:            loadBackoff("TEMPORAL_DIAL", 60, log),
		NamespaceEnsure: loadBackoff("TEMPORAL_NAMESPACE_ENSURE", 10, log),
		WorkerStart:     loadBackoff("TEMPORAL_WORKER_START", 60, log),

		ScheduleID:       envutil.String("TEMPORAL_SNAPSHOT_SCHEDULE_ID", "appealsync-case-snapshot", log),
		SnapshotInterval: envutil.Seconds("SNAPSHOT_INTERVAL_SECONDS", 900, log),
	}
}

// loadBackoff reads <prefix>_MAX_WAIT_SECONDS, <prefix>_BACKOFF_MS and
// <prefix>_BACKOFF_MAX_MS.
func loadBackoff(prefix string, maxWaitSeconds int, log *logger.Logger) Backoff {
	return Backoff{
		MaxWait: envutil.Seconds(prefix+"_MAX_WAIT_SECONDS", maxWaitSeconds, log),
		Base:    envutil.Millis(prefix+"_BACKOFF_MS", 250, log),
		Max:     envutil.Millis(prefix+"_BACKOFF_MAX_MS", 5000, log),
	}
}

func clampRetention(days int) int {
	switch {
	case days < 1:
		return 7
	case days > 365:
		return 365
	}
	return days
}

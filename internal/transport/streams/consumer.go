package streams

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

const (
	FieldPayload   = "payload"
	FieldType      = "type"
	fieldTypeAlt   = "eventType"
	deadSuffix     = ":dead"
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Handler reconciles one decoded message.
type Handler func(ctx context.Context, env casesync.Envelope) error

// Route binds a stream to the handler that consumes it.
type Route struct {
	Stream string
	Handle Handler
}

type Config struct {
	Group    string
	Consumer string
	// BatchSize caps messages read per stream per pass.
	BatchSize int64
	// Block is how long XREADGROUP waits for new entries. Zero reads without blocking.
	Block time.Duration
	// ReclaimIdle is how long a pending entry sits before another pass claims it.
	// Zero disables reclaiming.
	ReclaimIdle time.Duration
	// MaxDeliveries moves an entry to "<stream>:dead" once exceeded.
	MaxDeliveries int64
	// Permanent reports errors that redelivery cannot fix; those entries are dead-lettered at once.
	Permanent func(error) bool
	Metrics   Recorder
}

// Recorder receives one outcome per processed entry.
type Recorder interface {
	ObserveMessage(stream, outcome string, dur time.Duration)
}

const (
	outcomeAcked      = "acked"
	outcomePending    = "pending"
	outcomeDeadLetter = "dead_letter"
)

type Consumer struct {
	log    *logger.Logger
	rdb    *goredis.Client
	cfg    Config
	routes []Route
}

func NewConsumer(log *logger.Logger, rdb *goredis.Client, cfg Config, routes ...Route) (*Consumer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if strings.TrimSpace(cfg.Group) == "" {
		return nil, fmt.Errorf("consumer group required")
	}
	if strings.TrimSpace(cfg.Consumer) == "" {
		return nil, fmt.Errorf("consumer name required")
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("at least one route required")
	}
	for _, r := range routes {
		if strings.TrimSpace(r.Stream) == "" || r.Handle == nil {
			return nil, fmt.Errorf("route requires stream and handler")
		}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxDeliveries <= 0 {
		cfg.MaxDeliveries = 5
	}
	if cfg.Permanent == nil {
		cfg.Permanent = func(error) bool { return false }
	}
	return &Consumer{
		log:    log.With("service", "StreamConsumer", "group", cfg.Group, "consumer", cfg.Consumer),
		rdb:    rdb,
		cfg:    cfg,
		routes: routes,
	}, nil
}

// EnsureGroups creates the consumer group on every routed stream.
func (c *Consumer) EnsureGroups(ctx context.Context) error {
	for _, r := range c.routes {
		err := c.rdb.XGroupCreateMkStream(ctx, r.Stream, c.cfg.Group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("create consumer group for %s: %w", r.Stream, err)
		}
	}
	return nil
}

// Run consumes until ctx is cancelled, backing off while every stream is failing.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.EnsureGroups(ctx); err != nil {
		return err
	}
	c.log.Info("Stream consumer started", "streams", len(c.routes))

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, err := c.PollOnce(ctx)
		if err == nil || ctx.Err() != nil {
			backoff = initialBackoff
			continue
		}
		c.log.Error("Failed to consume streams", "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

// PollOnce makes one pass over every stream and returns the number of entries handled.
// The error is non-nil only when every stream failed to read.
func (c *Consumer) PollOnce(ctx context.Context) (int, error) {
	var (
		handled int
		errs    []error
	)
	for _, r := range c.routes {
		n, err := c.consume(ctx, r)
		handled += n
		if err != nil {
			c.log.Error("Failed to consume stream", "stream", r.Stream, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(c.routes) {
		return handled, errors.Join(errs...)
	}
	return handled, nil
}

func (c *Consumer) consume(ctx context.Context, r Route) (int, error) {
	handled := 0
	if c.cfg.ReclaimIdle > 0 {
		n, err := c.reclaim(ctx, r)
		handled += n
		if err != nil {
			return handled, err
		}
	}

	block := c.cfg.Block
	if block <= 0 {
		block = -1
	}
	res, err := c.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{r.Stream, ">"},
		Count:    c.cfg.BatchSize,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return handled, nil
		}
		return handled, fmt.Errorf("read from stream %s: %w", r.Stream, err)
	}
	for _, s := range res {
		for _, msg := range s.Messages {
			c.process(ctx, r, msg)
			handled++
		}
	}
	return handled, nil
}

// reclaim claims entries other consumers left pending and retries or dead-letters them.
func (c *Consumer) reclaim(ctx context.Context, r Route) (int, error) {
	msgs, _, err := c.rdb.XAutoClaim(ctx, &goredis.XAutoClaimArgs{
		Stream:   r.Stream,
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		MinIdle:  c.cfg.ReclaimIdle,
		Start:    "0-0",
		Count:    c.cfg.BatchSize,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("reclaim from stream %s: %w", r.Stream, err)
	}
	for _, msg := range msgs {
		deliveries, err := c.deliveries(ctx, r.Stream, msg.ID)
		if err != nil {
			return 0, err
		}
		if deliveries > c.cfg.MaxDeliveries {
			c.deadLetter(ctx, r, msg, fmt.Sprintf("exceeded %d deliveries", c.cfg.MaxDeliveries), deliveries)
			c.observe(r.Stream, outcomeDeadLetter, 0)
			continue
		}
		c.process(ctx, r, msg)
	}
	return len(msgs), nil
}

func (c *Consumer) deliveries(ctx context.Context, stream, id string) (int64, error) {
	pending, err := c.rdb.XPendingExt(ctx, &goredis.XPendingExtArgs{
		Stream: stream,
		Group:  c.cfg.Group,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("pending for %s %s: %w", stream, id, err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return pending[0].RetryCount, nil
}

// process hands one entry to its route. Success acks; a transient failure leaves
// the entry pending for reclaim.
func (c *Consumer) process(ctx context.Context, r Route, msg goredis.XMessage) {
	start := time.Now()
	env, err := decode(msg.Values)
	if err != nil {
		c.deadLetter(ctx, r, msg, err.Error(), 1)
		c.observe(r.Stream, outcomeDeadLetter, time.Since(start))
		return
	}
	if err := r.Handle(ctx, env); err != nil {
		if c.cfg.Permanent(err) {
			c.deadLetter(ctx, r, msg, err.Error(), 1)
			c.observe(r.Stream, outcomeDeadLetter, time.Since(start))
			return
		}
		c.log.Warn("Message left pending", "stream", r.Stream, "message_id", msg.ID, "error", err)
		c.observe(r.Stream, outcomePending, time.Since(start))
		return
	}
	c.ack(ctx, r.Stream, msg.ID)
	c.observe(r.Stream, outcomeAcked, time.Since(start))
}

func (c *Consumer) observe(stream, outcome string, dur time.Duration) {
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.ObserveMessage(stream, outcome, dur)
	}
}

func (c *Consumer) deadLetter(ctx context.Context, r Route, msg goredis.XMessage, reason string, deliveries int64) {
	values := make(map[string]interface{}, len(msg.Values)+3)
	for k, v := range msg.Values {
		values[k] = v
	}
	values["sourceId"] = msg.ID
	values["error"] = reason
	values["deliveries"] = strconv.FormatInt(deliveries, 10)

	if err := c.rdb.XAdd(ctx, &goredis.XAddArgs{Stream: r.Stream + deadSuffix, Values: values}).Err(); err != nil {
		// Keep it pending rather than lose it.
		c.log.Error("Dead-letter write failed", "stream", r.Stream, "message_id", msg.ID, "error", err)
		return
	}
	c.log.Warn("Message dead-lettered", "stream", r.Stream, "message_id", msg.ID, "reason", reason)
	c.ack(ctx, r.Stream, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, stream, id string) {
	if err := c.rdb.XAck(ctx, stream, c.cfg.Group, id).Err(); err != nil {
		c.log.Error("Ack failed", "stream", stream, "message_id", id, "error", err)
	}
}

func decode(values map[string]interface{}) (casesync.Envelope, error) {
	payload, ok := values[FieldPayload]
	if !ok {
		return casesync.Envelope{}, fmt.Errorf("message has no %q field", FieldPayload)
	}
	eventType := stringValue(values[FieldType])
	if eventType == "" {
		eventType = stringValue(values[fieldTypeAlt])
	}
	return casesync.NewEnvelope(eventType, []byte(stringValue(payload))), nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Publish appends a message in the layout the consumer reads.
func Publish(ctx context.Context, rdb *goredis.Client, stream, eventType string, payload []byte) (string, error) {
	return rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			FieldType:    eventType,
			FieldPayload: string(payload),
		},
	}).Result()
}

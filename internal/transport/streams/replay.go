package streams

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// ReplayDead moves up to limit entries from "<stream>:dead" back onto stream,
// oldest first, keeping only the payload and type fields.
func ReplayDead(ctx context.Context, rdb *goredis.Client, stream string, limit int64) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	dead := stream + deadSuffix
	msgs, err := rdb.XRangeN(ctx, dead, "-", "+", limit).Result()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", dead, err)
	}
	replayed := 0
	for _, msg := range msgs {
		values := map[string]interface{}{FieldPayload: stringValue(msg.Values[FieldPayload])}
		if t := stringValue(msg.Values[FieldType]); t != "" {
			values[FieldType] = t
		} else if t := stringValue(msg.Values[fieldTypeAlt]); t != "" {
			values[FieldType] = t
		}
		if err := rdb.XAdd(ctx, &goredis.XAddArgs{Stream: stream, Values: values}).Err(); err != nil {
			return replayed, fmt.Errorf("append to %s: %w", stream, err)
		}
		if err := rdb.XDel(ctx, dead, msg.ID).Err(); err != nil {
			return replayed, fmt.Errorf("remove %s from %s: %w", msg.ID, dead, err)
		}
		replayed++
	}
	return replayed, nil
}

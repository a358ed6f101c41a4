package streams

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestReplayDead(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	for _, p := range []string{`{"caseReference":"1"}`, `{"caseReference":"2"}`, `{"caseReference":"3"}`} {
		if err := rdb.XAdd(ctx, &goredis.XAddArgs{
			Stream: "appeals:case-has:dead",
			Values: map[string]interface{}{"payload": p, "type": "Update", "error": "boom", "sourceId": "1-0"},
		}).Err(); err != nil {
			t.Fatalf("XAdd: %v", err)
		}
	}

	n, err := ReplayDead(ctx, rdb, "appeals:case-has", 2)
	if err != nil {
		t.Fatalf("ReplayDead: %v", err)
	}
	if n != 2 {
		t.Fatalf("replayed=%d want 2", n)
	}
	if left, _ := rdb.XLen(ctx, "appeals:case-has:dead").Result(); left != 1 {
		t.Fatalf("dead left=%d want 1", left)
	}
	msgs, err := rdb.XRange(ctx, "appeals:case-has", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Values["payload"] != `{"caseReference":"1"}` {
		t.Fatalf("replayed entries=%v", msgs)
	}
	if _, ok := msgs[0].Values["error"]; ok {
		t.Fatalf("diagnostic fields should not be replayed")
	}
}

package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); got != nil {
		t.Fatalf("expected no fields, got %v", got)
	}
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	got := LogFields(ctx)
	if len(got) != 4 || got[1] != "t1" || got[3] != "r1" {
		t.Fatalf("fields=%v", got)
	}
	ctx = WithTraceData(context.Background(), &TraceData{RequestID: "r2"})
	if got := LogFields(ctx); len(got) != 2 || got[0] != "request_id" {
		t.Fatalf("fields=%v", got)
	}
}

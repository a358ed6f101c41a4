package streams

import (
	"context"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

// StreamNames names the inbound stream per entity.
type StreamNames struct {
	CaseHAS   string
	CaseS78   string
	Inspector string
	Event     string
}

func DefaultStreamNames() StreamNames {
	return StreamNames{
		CaseHAS:   "appeals:case-has",
		CaseS78:   "appeals:case-s78",
		Inspector: "appeals:inspector",
		Event:     "appeals:event",
	}
}

// EngineRoutes binds each stream to its reconciler. Empty names are skipped.
func EngineRoutes(e *casesync.Engine, names StreamNames) []Route {
	var out []Route
	add := func(stream string, h Handler) {
		if stream != "" {
			out = append(out, Route{Stream: stream, Handle: h})
		}
	}
	add(names.CaseHAS, func(ctx context.Context, env casesync.Envelope) error {
		return e.ReconcileCase(dbctx.Context{Ctx: ctx}, schema.NameCaseHAS, env)
	})
	add(names.CaseS78, func(ctx context.Context, env casesync.Envelope) error {
		return e.ReconcileCase(dbctx.Context{Ctx: ctx}, schema.NameCaseS78, env)
	})
	add(names.Inspector, func(ctx context.Context, env casesync.Envelope) error {
		return e.ReconcileInspector(dbctx.Context{Ctx: ctx}, env)
	})
	add(names.Event, func(ctx context.Context, env casesync.Envelope) error {
		return e.ReconcileEvent(dbctx.Context{Ctx: ctx}, env)
	})
	return out
}

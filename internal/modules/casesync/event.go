package casesync

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

// ReconcileEvent applies one appeal event message. Events for cases that are not
// stored are skipped. Events never move the watermark.
func (e *Engine) ReconcileEvent(dbc dbctx.Context, env Envelope) (err error) {
	ctx, span := startSpan(ctxOf(dbc), "casesync.ReconcileEvent",
		attribute.String("event_type", string(env.Metadata.EventType)),
	)
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	if err := e.validate(ctx, schema.NameEvent, env.Payload); err != nil {
		e.log.Warn("event payload rejected", "error", err)
		return err
	}
	p, err := DecodeEventPayload(env.Payload)
	if err != nil {
		return err
	}
	if d := Classify(env.Metadata.EventType, p.EventID, false); d.Action == ActionDelete {
		return e.DeleteEvent(dbc, d.Key)
	}
	if p.EventID == "" {
		return &MissingKeyError{Entity: EntityEvent, Field: "eventId", Op: "upsert"}
	}
	if p.CaseReference == "" {
		return &MissingKeyError{Entity: EntityEvent, Field: "caseReference", Op: "upsert"}
	}
	row, err := eventRow(p)
	if err != nil {
		return err
	}

	skipped := false
	err = e.inTx(dbc, func(inner dbctx.Context) error {
		c, err := e.cases.GetByReference(inner, p.CaseReference)
		if err != nil {
			return fmt.Errorf("load case: %w", err)
		}
		if c == nil {
			skipped = true
			return nil
		}
		if err := e.caseEvents.Upsert(inner, row); err != nil {
			return fmt.Errorf("upsert event: %w", err)
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "upsert", Entity: EntityEvent, Key: p.EventID, Err: err}
	}
	if skipped {
		e.log.Info("event skipped, case not stored", "event_id", p.EventID, "case_reference", p.CaseReference)
		return nil
	}
	e.log.Info("event reconciled", "event_id", p.EventID, "case_reference", p.CaseReference)
	return nil
}

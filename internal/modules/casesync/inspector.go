package casesync

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

// ReconcileInspector applies one inspector message. A missing postcode or a failed
// lookup fails the message before anything is written.
func (e *Engine) ReconcileInspector(dbc dbctx.Context, env Envelope) (err error) {
	ctx, span := startSpan(ctxOf(dbc), "casesync.ReconcileInspector",
		attribute.String("event_type", string(env.Metadata.EventType)),
	)
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	if err := e.validate(ctx, schema.NameInspector, env.Payload); err != nil {
		e.log.Warn("inspector payload rejected", "error", err)
		return err
	}
	p, err := DecodeInspectorPayload(env.Payload)
	if err != nil {
		return err
	}
	if d := Classify(env.Metadata.EventType, p.EntraID, false); d.Action == ActionDelete {
		return e.DeleteInspector(dbc, d.Key)
	}
	if p.EntraID == "" {
		return &MissingKeyError{Entity: EntityInspector, Field: "entraId", Op: "upsert"}
	}

	coords, err := e.inspectorCoordinates(ctx, p.EntraID, p.Postcode)
	if err != nil {
		e.log.Error("inspector geocode failed", "entra_id", p.EntraID, "error", err)
		return err
	}
	row := inspectorRow(p, coords)
	specs, keep, err := inspectorSpecialismRows(p.EntraID, p.Specialisms)
	if err != nil {
		return err
	}

	err = e.inTx(dbc, func(inner dbctx.Context) error {
		if err := e.inspectors.Upsert(inner, row); err != nil {
			return fmt.Errorf("upsert inspector: %w", err)
		}
		if _, err := e.inspectorSpecialisms.DeleteNotIn(inner, p.EntraID, keep); err != nil {
			return fmt.Errorf("prune inspector specialisms: %w", err)
		}
		if err := e.inspectorSpecialisms.Upsert(inner, specs); err != nil {
			return fmt.Errorf("upsert inspector specialisms: %w", err)
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "upsert", Entity: EntityInspector, Key: p.EntraID, Err: err}
	}
	e.log.Info("inspector reconciled", "entra_id", p.EntraID, "specialisms", len(keep))
	return nil
}

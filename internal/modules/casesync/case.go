package casesync

import (
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/pkg/pointers"
)

// ReconcileCase applies one case message read against schema kind
// (schema.NameCaseHAS or schema.NameCaseS78). It is safe to apply repeatedly.
func (e *Engine) ReconcileCase(dbc dbctx.Context, kind string, env Envelope) (err error) {
	ctx, span := startSpan(ctxOf(dbc), "casesync.ReconcileCase",
		attribute.String("schema", kind),
		attribute.String("event_type", string(env.Metadata.EventType)),
	)
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	if err := e.validate(ctx, kind, env.Payload); err != nil {
		e.log.Warn("case payload rejected", "schema", kind, "error", err)
		return err
	}
	p, err := DecodeCasePayload(kind, env.Payload)
	if err != nil {
		return err
	}

	d := Classify(env.Metadata.EventType, p.CaseReference, p.Assigned())
	e.log.Debug("case message classified", "action", d.Action.String(), "reason", d.Reason, "case_reference", d.Key)
	if d.Action == ActionDelete {
		return e.DeleteCase(dbc, d.Key)
	}
	if p.CaseReference == "" {
		return &MissingKeyError{Entity: EntityCase, Field: "caseReference", Op: "upsert"}
	}
	span.SetAttributes(attribute.String("case_reference", p.CaseReference))

	lat, lng := e.siteCoordinates(ctx, p.CaseReference, p.SiteAddressPostcode)
	row, err := caseRow(p, lat, lng, nil)
	if err != nil {
		return err
	}
	specs, keep := caseSpecialismRows(p.CaseReference, p.CaseSpecialisms)

	err = e.inTx(dbc, func(inner dbctx.Context) error {
		if err := e.applyCase(inner, p, row, specs, keep, nil); err != nil {
			return err
		}
		if err := e.pollStatus.Touch(inner, e.now()); err != nil {
			return fmt.Errorf("advance watermark: %w", err)
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "upsert", Entity: EntityCase, Key: p.CaseReference, Err: err}
	}
	e.log.Info("case reconciled",
		"case_reference", p.CaseReference,
		"schema", kind,
		"specialisms", len(keep),
		"geocoded", lat != nil,
	)
	return nil
}

// applyCase writes the root row and makes the stored specialism set equal keep.
// lpaIDs memoizes authority lookups across a bulk pass and may be nil.
func (e *Engine) applyCase(
	dbc dbctx.Context,
	p *CasePayload,
	row *types.Case,
	specs []*types.CaseSpecialism,
	keep []string,
	lpaIDs map[string]uuid.UUID,
) error {
	if code := pointers.TrimmedOrNil(p.LpaCode); code != nil {
		id, ok := lpaIDs[*code]
		if !ok {
			lpa, err := e.lpas.EnsureByCode(dbc, *code, pointers.Deref(p.LpaName))
			if err != nil {
				return fmt.Errorf("resolve lpa %s: %w", *code, err)
			}
			if lpa == nil {
				return fmt.Errorf("resolve lpa %s: not stored", *code)
			}
			id = lpa.ID
			if lpaIDs != nil {
				lpaIDs[*code] = id
			}
		}
		row.LpaID = &id
	}
	if err := e.cases.Upsert(dbc, row); err != nil {
		return fmt.Errorf("upsert case: %w", err)
	}
	if _, err := e.caseSpecialisms.DeleteNotIn(dbc, row.Reference, keep); err != nil {
		return fmt.Errorf("prune case specialisms: %w", err)
	}
	if err := e.caseSpecialisms.Upsert(dbc, specs); err != nil {
		return fmt.Errorf("upsert case specialisms: %w", err)
	}
	return nil
}

package casesync

import (
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/appealsync-backend/internal/pkg/errors"
)

// DeleteCase removes a case with its events and specialisms, clears the lead
// pointer of any case linked to it and advances the watermark. An absent case is
// not an error.
func (e *Engine) DeleteCase(dbc dbctx.Context, reference string) (err error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return &MissingKeyError{Entity: EntityCase, Field: "caseReference", Op: "delete"}
	}
	ctx, span := startSpan(ctxOf(dbc), "casesync.DeleteCase", attribute.String("case_reference", reference))
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	var unlinked int64
	notFound := false
	err = e.inTx(dbc, func(inner dbctx.Context) error {
		refs := []string{reference}
		n, err := e.cases.UnlinkChildren(inner, refs)
		if err != nil {
			return fmt.Errorf("unlink child cases: %w", err)
		}
		unlinked = n
		if _, err := e.caseEvents.DeleteByCases(inner, refs); err != nil {
			return fmt.Errorf("delete case events: %w", err)
		}
		if _, err := e.caseSpecialisms.DeleteByCases(inner, refs); err != nil {
			return fmt.Errorf("delete case specialisms: %w", err)
		}
		if err := e.cases.Delete(inner, reference); err != nil {
			if !errors.Is(err, pkgerrors.ErrNotFound) {
				return fmt.Errorf("delete case: %w", err)
			}
			notFound = true
		}
		if err := e.pollStatus.Touch(inner, e.now()); err != nil {
			return fmt.Errorf("advance watermark: %w", err)
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "delete", Entity: EntityCase, Key: reference, Err: err}
	}
	if notFound {
		e.log.Info("case already absent", "case_reference", reference, "unlinked_children", unlinked)
		return nil
	}
	e.log.Info("case deleted", "case_reference", reference, "unlinked_children", unlinked)
	return nil
}

// DeleteInspector removes an inspector and its specialisms. An absent inspector is
// not an error.
func (e *Engine) DeleteInspector(dbc dbctx.Context, entraID string) (err error) {
	entraID = strings.TrimSpace(entraID)
	if entraID == "" {
		return &MissingKeyError{Entity: EntityInspector, Field: "entraId", Op: "delete"}
	}
	ctx, span := startSpan(ctxOf(dbc), "casesync.DeleteInspector")
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	notFound := false
	err = e.inTx(dbc, func(inner dbctx.Context) error {
		if _, err := e.inspectorSpecialisms.DeleteByInspector(inner, entraID); err != nil {
			return fmt.Errorf("delete inspector specialisms: %w", err)
		}
		if err := e.inspectors.Delete(inner, entraID); err != nil {
			if !errors.Is(err, pkgerrors.ErrNotFound) {
				return fmt.Errorf("delete inspector: %w", err)
			}
			notFound = true
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "delete", Entity: EntityInspector, Key: entraID, Err: err}
	}
	if notFound {
		e.log.Info("inspector already absent", "entra_id", entraID)
		return nil
	}
	e.log.Info("inspector deleted", "entra_id", entraID)
	return nil
}

func (e *Engine) DeleteEvent(dbc dbctx.Context, eventID string) (err error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return &MissingKeyError{Entity: EntityEvent, Field: "eventId", Op: "delete"}
	}
	ctx, span := startSpan(ctxOf(dbc), "casesync.DeleteEvent", attribute.String("event_id", eventID))
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	err = e.inTx(dbc, func(inner dbctx.Context) error {
		if err := e.caseEvents.Delete(inner, eventID); err != nil && !errors.Is(err, pkgerrors.ErrNotFound) {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "delete", Entity: EntityEvent, Key: eventID, Err: err}
	}
	e.log.Info("event deleted", "event_id", eventID)
	return nil
}

package casesync

import (
	"errors"
	"fmt"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
)

const (
	EntityCase      = "case"
	EntityInspector = "inspector"
	EntityEvent     = "event"
)

// ValidationError is returned when a payload does not conform to its schema.
type ValidationError = schema.ValidationError

type FieldError = schema.FieldError

// MissingKeyError is returned when the natural key of an entity is absent.
type MissingKeyError struct {
	Entity string
	Field  string
	Op     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s %s: missing %s", e.Entity, e.Op, e.Field)
}

// EnrichmentError reports a failed or empty coordinate lookup. Case reconciliation
// tolerates it; inspector reconciliation returns it.
type EnrichmentError struct {
	Entity string
	Key    string
	Reason string
	Err    error
}

func (e *EnrichmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve coordinates for %s %s: %s: %v", e.Entity, e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve coordinates for %s %s: %s", e.Entity, e.Key, e.Reason)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// StoreError wraps a failed transaction with the entity it was applied to.
type StoreError struct {
	Op     string
	Entity string
	Key    string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ErrNoFetcher is returned by ReconcileSnapshot when the engine was built without a SnapshotFetcher.
var ErrNoFetcher = errors.New("snapshot: no fetcher configured")

// IsPermanent reports whether redelivering the message can never succeed.
func IsPermanent(err error) bool {
	var ve *ValidationError
	var mk *MissingKeyError
	return errors.As(err, &ve) || errors.As(err, &mk)
}

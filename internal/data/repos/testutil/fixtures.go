package testutil

import (
	"context"
	"testing"
	"time"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedCase(tb testing.TB, ctx context.Context, tx *gorm.DB, reference string, specialisms ...string) *types.Case {
	tb.Helper()
	now := time.Now().UTC()
	c := &types.Case{
		Reference:  reference,
		AppealType: types.AppealTypeHAS,
		CaseStatus: PtrString("ready_to_start"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Omit("Lpa", "Specialisms", "Events").Create(c).Error; err != nil {
		tb.Fatalf("seed case: %v", err)
	}
	for _, name := range specialisms {
		s := &types.CaseSpecialism{CaseReference: reference, Name: name, CreatedAt: now, UpdatedAt: now}
		if err := tx.WithContext(ctx).Create(s).Error; err != nil {
			tb.Fatalf("seed case specialism: %v", err)
		}
	}
	return c
}

func SeedChildCase(tb testing.TB, ctx context.Context, tx *gorm.DB, reference, leadReference string) *types.Case {
	tb.Helper()
	c := SeedCase(tb, ctx, tx, reference)
	err := tx.WithContext(ctx).Model(&types.Case{}).
		Where("reference = ?", reference).
		Updates(map[string]interface{}{
			"lead_case_reference": leadReference,
			"linked_case_status":  types.LinkedCaseStatusChild,
		}).Error
	if err != nil {
		tb.Fatalf("seed child case: %v", err)
	}
	c.LeadCaseReference = &leadReference
	return c
}

func SeedCaseEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, id, caseReference string) *types.CaseEvent {
	tb.Helper()
	now := time.Now().UTC()
	e := &types.CaseEvent{
		ID:            id,
		CaseReference: caseReference,
		EventType:     "site_visit_unaccompanied",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed case event: %v", err)
	}
	return e
}

func SeedInspector(tb testing.TB, ctx context.Context, tx *gorm.DB, entraID string, specialisms ...string) *types.Inspector {
	tb.Helper()
	now := time.Now().UTC()
	in := &types.Inspector{
		EntraID:   entraID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Postcode:  "BS1 6PN",
		Latitude:  51.45,
		Longitude: -2.59,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Omit("Specialisms").Create(in).Error; err != nil {
		tb.Fatalf("seed inspector: %v", err)
	}
	for _, name := range specialisms {
		s := &types.InspectorSpecialism{InspectorEntraID: entraID, Name: name, CreatedAt: now, UpdatedAt: now}
		if err := tx.WithContext(ctx).Create(s).Error; err != nil {
			tb.Fatalf("seed inspector specialism: %v", err)
		}
	}
	return in
}

func PtrString(v string) *string { return &v }

func PtrFloat(v float64) *float64 { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

package casesync

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/appealsync-backend/internal/data/repos/testutil"
	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

// failOnTable installs a create callback that fails every insert into table.
func failOnTable(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("injected failure"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestReconcileCaseRollsBackOnSpecialismFailure(t *testing.T) {
	db := testutil.SQLite(t)
	failOnTable(t, db, "case_specialism")
	e, err := New(Deps{DB: db, Log: testutil.Logger(t), Geocoder: newGeocoder()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dbc := dbctx.Context{Ctx: context.Background()}

	err = e.ReconcileCase(dbc, schema.NameCaseHAS, envelope(t, "CREATE", hasPayload("APP/30", "Trees")))
	var se *StoreError
	if !errors.As(err, &se) || se.Key != "APP/30" || se.Entity != EntityCase {
		t.Fatalf("want StoreError for APP/30, got %v", err)
	}

	var cases, lpas int64
	if err := db.Model(&types.Case{}).Count(&cases).Error; err != nil || cases != 0 {
		t.Fatalf("case row survived rollback: n=%d err=%v", cases, err)
	}
	if err := db.Model(&types.Lpa{}).Count(&lpas).Error; err != nil || lpas != 0 {
		t.Fatalf("lpa row survived rollback: n=%d err=%v", lpas, err)
	}
	if ps, err := e.Status(dbc); err != nil || ps != nil {
		t.Fatalf("watermark survived rollback: %+v err=%v", ps, err)
	}
}

func TestReconcileSnapshotRollsBackWholePass(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	testutil.SeedCase(t, ctx, db, "OLD")
	failOnTable(t, db, "poll_run")

	fetch := &fakeFetcher{snap: &Snapshot{
		Cases:          []*CasePayload{snapshotCase("NEW", "")},
		CaseReferences: []string{"NEW"},
	}}
	e, err := New(Deps{DB: db, Log: testutil.Logger(t), Geocoder: newGeocoder(), Fetcher: fetch})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := e.ReconcileSnapshot(dbc); err == nil {
		t.Fatalf("expected failure")
	}
	refs, err := e.cases.ListReferences(dbc)
	if err != nil || !equalStrings(refs, []string{"OLD"}) {
		t.Fatalf("store changed by failed pass: %v err=%v", refs, err)
	}
	if ps, err := e.Status(dbc); err != nil || ps != nil {
		t.Fatalf("watermark advanced by failed pass: %+v err=%v", ps, err)
	}
}

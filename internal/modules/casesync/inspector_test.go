package casesync

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/appealsync-backend/internal/data/repos/testutil"
)

func TestReconcileInspector(t *testing.T) {
	h := newHarness(t)

	env := envelope(t, "CREATE", inspectorPayload("entra-1", "m1 1ae",
		map[string]interface{}{"name": "Housing", "proficiency": "trainee"},
		map[string]interface{}{"name": "Trees"},
		map[string]interface{}{"name": ""},
		map[string]interface{}{"name": "Housing", "proficiency": "trained", "validFrom": "2024-02-01"},
	))
	if err := h.engine.ReconcileInspector(h.dbc, env); err != nil {
		t.Fatalf("ReconcileInspector: %v", err)
	}
	in, err := h.engine.inspectors.GetByEntraID(h.dbc, "entra-1")
	if err != nil || in == nil {
		t.Fatalf("inspector not stored: %v err=%v", in, err)
	}
	if in.Postcode != "M1 1AE" || in.Latitude != 53.4808 || in.Email == nil {
		t.Fatalf("inspector columns: %+v", in)
	}
	specs, err := h.engine.inspectorSpecialisms.ListByInspector(h.dbc, "entra-1")
	if err != nil || len(specs) != 2 {
		t.Fatalf("specialisms: %v err=%v", specs, err)
	}
	housing := specs[0]
	if housing.Name != "Housing" || housing.Proficiency == nil || *housing.Proficiency != "trained" || housing.ValidFrom == nil {
		t.Fatalf("last duplicate should win: %+v", housing)
	}
	if got := time.Time(*housing.ValidFrom); got.Year() != 2024 || got.Month() != time.February {
		t.Fatalf("validFrom: %v", got)
	}

	// A later message drops Trees.
	env = envelope(t, "UPDATE", inspectorPayload("entra-1", "M1 1AE",
		map[string]interface{}{"name": "Housing", "proficiency": "trained"},
	))
	if err := h.engine.ReconcileInspector(h.dbc, env); err != nil {
		t.Fatalf("ReconcileInspector update: %v", err)
	}
	specs, err = h.engine.inspectorSpecialisms.ListByInspector(h.dbc, "entra-1")
	if err != nil || len(specs) != 1 || specs[0].Name != "Housing" {
		t.Fatalf("specialisms after update: %v err=%v", specs, err)
	}
	if ps := h.watermark(t); ps != nil {
		t.Fatalf("inspector messages must not move the watermark: %+v", ps)
	}
}

func TestReconcileInspectorWithoutPostcodeFails(t *testing.T) {
	h := newHarness(t)

	err := h.engine.ReconcileInspector(h.dbc, envelope(t, "CREATE", inspectorPayload("X", "")))
	var ee *EnrichmentError
	if !errors.As(err, &ee) || ee.Key != "X" {
		t.Fatalf("want EnrichmentError for X, got %v", err)
	}
	if err.Error() == "" {
		t.Fatalf("error must describe the failure")
	}
	if in, err := h.engine.inspectors.GetByEntraID(h.dbc, "X"); err != nil || in != nil {
		t.Fatalf("inspector stored despite failure: %v err=%v", in, err)
	}
}

func TestReconcileInspectorGeocodeFailureLeavesRowUntouched(t *testing.T) {
	h := newHarness(t)
	testutil.SeedInspector(t, h.dbc.Ctx, h.tx, "entra-2", "Trees")
	h.geo.err = errors.New("timeout")

	err := h.engine.ReconcileInspector(h.dbc, envelope(t, "UPDATE", inspectorPayload("entra-2", "M1 1AE",
		map[string]interface{}{"name": "Housing"},
	)))
	var ee *EnrichmentError
	if !errors.As(err, &ee) {
		t.Fatalf("want EnrichmentError, got %v", err)
	}
	in, err := h.engine.inspectors.GetByEntraID(h.dbc, "entra-2")
	if err != nil || in == nil || in.Postcode != "BS1 6PN" {
		t.Fatalf("inspector changed: %+v err=%v", in, err)
	}
	specs, err := h.engine.inspectorSpecialisms.ListByInspector(h.dbc, "entra-2")
	if err != nil || len(specs) != 1 || specs[0].Name != "Trees" {
		t.Fatalf("specialisms changed: %v err=%v", specs, err)
	}
}

func TestReconcileInspectorValidation(t *testing.T) {
	h := newHarness(t)
	p := inspectorPayload("entra-3", "BS1 6PN")
	delete(p, "lastName")

	var ve *ValidationError
	if err := h.engine.ReconcileInspector(h.dbc, envelope(t, "CREATE", p)); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	var mk *MissingKeyError
	if err := h.engine.ReconcileInspector(h.dbc, envelope(t, "CREATE", inspectorPayload("", "BS1 6PN"))); !errors.As(err, &mk) {
		t.Fatalf("want MissingKeyError, got %v", err)
	}
}

func TestReconcileInspectorDeleteMessage(t *testing.T) {
	h := newHarness(t)
	testutil.SeedInspector(t, h.dbc.Ctx, h.tx, "entra-4", "Trees")

	var ve *ValidationError
	bad := envelope(t, "DELETE", map[string]interface{}{"entraId": "entra-4"})
	if err := h.engine.ReconcileInspector(h.dbc, bad); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for non-conforming delete, got %v", err)
	}
	if in, err := h.engine.inspectors.GetByEntraID(h.dbc, "entra-4"); err != nil || in == nil {
		t.Fatalf("inspector removed by rejected delete: %v err=%v", in, err)
	}

	env := envelope(t, "DELETE", inspectorPayload("entra-4", "ZZ9 9ZZ"))
	if err := h.engine.ReconcileInspector(h.dbc, env); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := h.engine.ReconcileInspector(h.dbc, env); err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if in, err := h.engine.inspectors.GetByEntraID(h.dbc, "entra-4"); err != nil || in != nil {
		t.Fatalf("inspector still stored: %v err=%v", in, err)
	}
}

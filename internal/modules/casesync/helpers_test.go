package casesync

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/appealsync-backend/internal/data/repos/testutil"
	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]types.Coordinates
	err    error
	calls  int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, postcode string) (types.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return types.Coordinates{}, f.err
	}
	c, ok := f.coords[strings.ToUpper(postcode)]
	if !ok {
		return types.Coordinates{}, errors.New("no results")
	}
	return c, nil
}

func (f *fakeGeocoder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newGeocoder() *fakeGeocoder {
	return &fakeGeocoder{coords: map[string]types.Coordinates{
		"BS1 6PN": {Latitude: 51.4545, Longitude: -2.5879},
		"M1 1AE":  {Latitude: 53.4808, Longitude: -2.2426},
	}}
}

type fakeFetcher struct {
	snap *Snapshot
	err  error
}

func (f *fakeFetcher) FetchAllCases(ctx context.Context) (*Snapshot, error) {
	return f.snap, f.err
}

type harness struct {
	engine *Engine
	dbc    dbctx.Context
	tx     *gorm.DB
	geo    *fakeGeocoder
	fetch  *fakeFetcher
}

// newHarness runs the engine inside a rolled-back test transaction.
func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	geo := newGeocoder()
	fetch := &fakeFetcher{}
	e, err := New(Deps{
		DB:       db,
		Log:      testutil.Logger(t),
		Geocoder: geo,
		Fetcher:  fetch,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{
		engine: e,
		dbc:    dbctx.Context{Ctx: context.Background(), Tx: tx},
		tx:     tx,
		geo:    geo,
		fetch:  fetch,
	}
}

func envelope(t *testing.T, eventType string, payload map[string]interface{}) Envelope {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return NewEnvelope(eventType, b)
}

func hasPayload(ref string, specialisms ...string) map[string]interface{} {
	specs := make([]interface{}, 0, len(specialisms))
	for _, s := range specialisms {
		specs = append(specs, s)
	}
	return map[string]interface{}{
		"caseReference":       ref,
		"caseType":            "D",
		"caseStatus":          "ready_to_start",
		"caseProcedure":       "written",
		"allocationLevel":     "A",
		"allocationBand":      1,
		"siteAddressLine1":    "1 Temple Quay",
		"siteAddressTown":     "Bristol",
		"siteAddressPostcode": "bs1 6pn",
		"lpaCode":             "Q9999",
		"lpaName":             "Bristol",
		"caseReceivedDate":    "2025-01-10",
		"caseValidDate":       "2025-01-12T09:30:00Z",
		"caseSpecialisms":     specs,
	}
}

func inspectorPayload(entraID, postcode string, specialisms ...map[string]interface{}) map[string]interface{} {
	specs := make([]interface{}, 0, len(specialisms))
	for _, s := range specialisms {
		specs = append(specs, s)
	}
	return map[string]interface{}{
		"entraId":     entraID,
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       "ada@example.com",
		"grade":       "B2",
		"fte":         0.8,
		"postcode":    postcode,
		"specialisms": specs,
	}
}

func (h *harness) caseRow(t *testing.T, ref string) *types.Case {
	t.Helper()
	c, err := h.engine.cases.GetByReference(h.dbc, ref)
	if err != nil {
		t.Fatalf("GetByReference(%s): %v", ref, err)
	}
	return c
}

func (h *harness) caseSpecialisms(t *testing.T, ref string) []string {
	t.Helper()
	names, err := h.engine.caseSpecialisms.ListNames(h.dbc, ref)
	if err != nil {
		t.Fatalf("ListNames(%s): %v", ref, err)
	}
	return names
}

func (h *harness) references(t *testing.T) []string {
	t.Helper()
	refs, err := h.engine.cases.ListReferences(h.dbc)
	if err != nil {
		t.Fatalf("ListReferences: %v", err)
	}
	return refs
}

func (h *harness) watermark(t *testing.T) *types.PollStatus {
	t.Helper()
	ps, err := h.engine.Status(h.dbc)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	return ps
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

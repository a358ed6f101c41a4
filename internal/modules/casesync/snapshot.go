package casesync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/pkg/pointers"
)

type SnapshotResult struct {
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
	CasesFetched  int       `json:"casesFetched"`
	CasesUpserted int       `json:"casesUpserted"`
	CasesDeleted  int       `json:"casesDeleted"`
}

type snapshotItem struct {
	payload *CasePayload
	lat     *float64
	lng     *float64
	row     *types.Case
	specs   []*types.CaseSpecialism
	keep    []string
}

// ReconcileSnapshot makes the stored case set equal the upstream snapshot in one
// transaction: every unassigned snapshot case is upserted and every other stored
// case is deleted. The watermark only moves when the whole pass commits.
func (e *Engine) ReconcileSnapshot(dbc dbctx.Context) (res *SnapshotResult, err error) {
	ctx, span := startSpan(ctxOf(dbc), "casesync.ReconcileSnapshot")
	defer func() { endSpan(span, err) }()
	dbc.Ctx = ctx

	if e.fetcher == nil {
		return nil, ErrNoFetcher
	}
	started := e.now()
	snap, err := e.fetcher.FetchAllCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	if snap == nil {
		snap = &Snapshot{}
	}
	span.SetAttributes(attribute.Int("cases_fetched", len(snap.Cases)))

	items, keepRefs := e.snapshotItems(snap)
	if err := e.resolveSnapshotCoordinates(dbc, items); err != nil {
		return nil, err
	}
	for _, it := range items {
		row, err := caseRow(it.payload, it.lat, it.lng, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot case %s: %w", it.payload.CaseReference, err)
		}
		it.row = row
		it.specs, it.keep = caseSpecialismRows(it.payload.CaseReference, it.payload.CaseSpecialisms)
	}

	res = &SnapshotResult{StartedAt: started, CasesFetched: len(snap.Cases)}
	err = e.inTx(dbc, func(inner dbctx.Context) error {
		lpaIDs := map[string]uuid.UUID{}
		for _, it := range items {
			if err := e.applyCase(inner, it.payload, it.row, it.specs, it.keep, lpaIDs); err != nil {
				return fmt.Errorf("case %s: %w", it.payload.CaseReference, err)
			}
		}
		res.CasesUpserted = len(items)

		stored, err := e.cases.ListReferences(inner)
		if err != nil {
			return fmt.Errorf("list stored cases: %w", err)
		}
		stale := make([]string, 0)
		for _, ref := range stored {
			if !keepRefs[ref] {
				stale = append(stale, ref)
			}
		}
		if len(stale) > 0 {
			if _, err := e.cases.UnlinkChildren(inner, stale); err != nil {
				return fmt.Errorf("unlink stale children: %w", err)
			}
			if _, err := e.caseEvents.DeleteByCases(inner, stale); err != nil {
				return fmt.Errorf("delete stale events: %w", err)
			}
			if _, err := e.caseSpecialisms.DeleteByCases(inner, stale); err != nil {
				return fmt.Errorf("delete stale specialisms: %w", err)
			}
			n, err := e.cases.DeleteByReferences(inner, stale)
			if err != nil {
				return fmt.Errorf("delete stale cases: %w", err)
			}
			res.CasesDeleted = int(n)
		}

		res.FinishedAt = e.now()
		if err := e.pollStatus.Record(inner, res.FinishedAt, res.CasesFetched); err != nil {
			return fmt.Errorf("record watermark: %w", err)
		}
		run := &types.PollRun{
			StartedAt:     res.StartedAt,
			FinishedAt:    res.FinishedAt,
			CasesFetched:  res.CasesFetched,
			CasesUpserted: res.CasesUpserted,
			CasesDeleted:  res.CasesDeleted,
		}
		if err := e.pollStatus.AppendRun(inner, run); err != nil {
			return fmt.Errorf("append poll run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "reconcile", Entity: "snapshot", Key: started.Format(time.RFC3339), Err: err}
	}
	e.log.Info("snapshot reconciled",
		"cases_fetched", res.CasesFetched,
		"cases_upserted", res.CasesUpserted,
		"cases_deleted", res.CasesDeleted,
		"duration_ms", res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
	)
	return res, nil
}

// snapshotItems picks the cases to upsert and the set of references to keep.
// Assigned cases are left out of both so they are deleted. A repeated reference
// keeps its last payload.
func (e *Engine) snapshotItems(snap *Snapshot) ([]*snapshotItem, map[string]bool) {
	byRef := map[string]*CasePayload{}
	order := make([]string, 0, len(snap.Cases))
	for _, p := range snap.Cases {
		if p == nil {
			continue
		}
		ref := strings.TrimSpace(p.CaseReference)
		if ref == "" {
			e.log.Warn("snapshot case without reference skipped")
			continue
		}
		p.CaseReference = ref
		if _, ok := byRef[ref]; !ok {
			order = append(order, ref)
		}
		byRef[ref] = p
	}

	keep := map[string]bool{}
	for _, ref := range snap.CaseReferences {
		if ref = strings.TrimSpace(ref); ref != "" {
			keep[ref] = true
		}
	}
	items := make([]*snapshotItem, 0, len(order))
	for _, ref := range order {
		p := byRef[ref]
		if p.Assigned() {
			delete(keep, ref)
			continue
		}
		keep[ref] = true
		items = append(items, &snapshotItem{payload: p})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].payload.CaseReference < items[j].payload.CaseReference
	})
	return items, keep
}

// resolveSnapshotCoordinates reuses stored coordinates when a case's postcode is
// unchanged and geocodes the rest concurrently under the case tolerance policy.
func (e *Engine) resolveSnapshotCoordinates(dbc dbctx.Context, items []*snapshotItem) error {
	refs := make([]string, 0, len(items))
	for _, it := range items {
		refs = append(refs, it.payload.CaseReference)
	}
	stored, err := e.cases.ListSiteLocations(dbc, refs)
	if err != nil {
		return fmt.Errorf("load stored site locations: %w", err)
	}

	g, gctx := errgroup.WithContext(ctxOf(dbc))
	g.SetLimit(e.geocodeConcurrency)
	reused := 0
	for _, it := range items {
		pc := normalizePostcode(it.payload.SiteAddressPostcode)
		if prev := stored[it.payload.CaseReference]; prev != nil && pc != nil &&
			pointers.Deref(prev.SiteAddressPostcode) == *pc &&
			prev.SiteLatitude != nil && prev.SiteLongitude != nil {
			it.lat, it.lng = prev.SiteLatitude, prev.SiteLongitude
			reused++
			continue
		}
		g.Go(func() error {
			it.lat, it.lng = e.siteCoordinates(gctx, it.payload.CaseReference, it.payload.SiteAddressPostcode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctxOf(dbc).Err(); err != nil {
		return err
	}
	e.log.Debug("snapshot coordinates resolved", "cases", len(items), "reused", reused)
	return nil
}

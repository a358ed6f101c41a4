package casesync

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/appealsync-backend/internal/data/repos"
	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

// Geocoder resolves a postcode to coordinates. It fails when the lookup errors or
// returns no result.
type Geocoder interface {
	Resolve(ctx context.Context, postcode string) (types.Coordinates, error)
}

// Snapshot is the authoritative full case list.
type Snapshot struct {
	Cases          []*CasePayload
	CaseReferences []string
}

type SnapshotFetcher interface {
	FetchAllCases(ctx context.Context) (*Snapshot, error)
}

type Deps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Schemas  *schema.Cache
	Geocoder Geocoder
	Fetcher  SnapshotFetcher

	Cases                repos.CaseRepo
	CaseSpecialisms      repos.CaseSpecialismRepo
	CaseEvents           repos.CaseEventRepo
	Lpas                 repos.LpaRepo
	Inspectors           repos.InspectorRepo
	InspectorSpecialisms repos.InspectorSpecialismRepo
	PollStatus           repos.PollStatusRepo

	// GeocodeConcurrency bounds parallel lookups during a bulk pass.
	GeocodeConcurrency int
	Now                func() time.Time
}

// Engine applies inbound messages and bulk snapshots to the store.
type Engine struct {
	db       *gorm.DB
	log      *logger.Logger
	schemas  *schema.Cache
	geocoder Geocoder
	fetcher  SnapshotFetcher

	cases                repos.CaseRepo
	caseSpecialisms      repos.CaseSpecialismRepo
	caseEvents           repos.CaseEventRepo
	lpas                 repos.LpaRepo
	inspectors           repos.InspectorRepo
	inspectorSpecialisms repos.InspectorSpecialismRepo
	pollStatus           repos.PollStatusRepo

	geocodeConcurrency int
	now                func() time.Time
}

func New(d Deps) (*Engine, error) {
	if d.DB == nil {
		return nil, fmt.Errorf("casesync: missing db")
	}
	if d.Log == nil {
		return nil, fmt.Errorf("casesync: missing logger")
	}
	if d.Schemas == nil {
		d.Schemas = schema.Default()
	}
	if d.Cases == nil {
		d.Cases = repos.NewCaseRepo(d.DB, d.Log)
	}
	if d.CaseSpecialisms == nil {
		d.CaseSpecialisms = repos.NewCaseSpecialismRepo(d.DB, d.Log)
	}
	if d.CaseEvents == nil {
		d.CaseEvents = repos.NewCaseEventRepo(d.DB, d.Log)
	}
	if d.Lpas == nil {
		d.Lpas = repos.NewLpaRepo(d.DB, d.Log)
	}
	if d.Inspectors == nil {
		d.Inspectors = repos.NewInspectorRepo(d.DB, d.Log)
	}
	if d.InspectorSpecialisms == nil {
		d.InspectorSpecialisms = repos.NewInspectorSpecialismRepo(d.DB, d.Log)
	}
	if d.PollStatus == nil {
		d.PollStatus = repos.NewPollStatusRepo(d.DB, d.Log)
	}
	if d.GeocodeConcurrency <= 0 {
		d.GeocodeConcurrency = 8
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		db:                   d.DB,
		log:                  d.Log.With("service", "CaseSync"),
		schemas:              d.Schemas,
		geocoder:             d.Geocoder,
		fetcher:              d.Fetcher,
		cases:                d.Cases,
		caseSpecialisms:      d.CaseSpecialisms,
		caseEvents:           d.CaseEvents,
		lpas:                 d.Lpas,
		inspectors:           d.Inspectors,
		inspectorSpecialisms: d.InspectorSpecialisms,
		pollStatus:           d.PollStatus,
		geocodeConcurrency:   d.GeocodeConcurrency,
		now:                  d.Now,
	}, nil
}

// Status returns the watermark, or nil before the first sync.
func (e *Engine) Status(dbc dbctx.Context) (*types.PollStatus, error) {
	return e.pollStatus.Get(dbc)
}

// RecentRuns lists the latest bulk passes, newest first.
func (e *Engine) RecentRuns(dbc dbctx.Context, limit int) ([]*types.PollRun, error) {
	return e.pollStatus.LatestRuns(dbc, limit)
}

// inTx runs fn in one transaction on dbc.Tx when set, or on the engine db.
func (e *Engine) inTx(dbc dbctx.Context, fn func(inner dbctx.Context) error) error {
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = e.db
	}
	return transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: txx})
	})
}

func (e *Engine) validate(ctx context.Context, name string, payload []byte) error {
	v, err := e.schemas.Validator(ctx, name)
	if err != nil {
		return err
	}
	return v.Validate(payload)
}

func ctxOf(dbc dbctx.Context) context.Context {
	if dbc.Ctx == nil {
		return context.Background()
	}
	return dbc.Ctx
}

package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/appealsync-backend/internal/jobs/poller"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/observability"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
	"github.com/yungbote/appealsync-backend/internal/temporalx/temporalworker"
	"github.com/yungbote/appealsync-backend/internal/transport/streams"
)

type Services struct {
	Engine *casesync.Engine

	// At most one of Poller and TemporalWorker is set.
	Consumer       *streams.Consumer
	Poller         *poller.Poller
	TemporalWorker *temporalworker.Runner
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	deps := casesync.Deps{
		DB:      db,
		Log:     log,
		Schemas: schema.Default(),

		Cases:                reposet.Case,
		CaseSpecialisms:      reposet.CaseSpecialism,
		CaseEvents:           reposet.CaseEvent,
		Lpas:                 reposet.Lpa,
		Inspectors:           reposet.Inspector,
		InspectorSpecialisms: reposet.InspectorSpecialism,
		PollStatus:           reposet.PollStatus,

		GeocodeConcurrency: cfg.GeocodeConcurrency,
	}
	if clients.Geocode != nil {
		deps.Geocoder = clients.Geocode
	}
	if clients.Upstream != nil {
		deps.Fetcher = clients.Upstream
	}
	engine, err := casesync.New(deps)
	if err != nil {
		return Services{}, fmt.Errorf("init casesync engine: %w", err)
	}
	out := Services{Engine: engine}

	if clients.Redis != nil {
		scfg := cfg.Streams
		scfg.Permanent = casesync.IsPermanent
		if metrics != nil {
			scfg.Metrics = metrics
		}
		consumer, err := streams.NewConsumer(log, clients.Redis, scfg, streams.EngineRoutes(engine, cfg.Names)...)
		if err != nil {
			return Services{}, fmt.Errorf("init stream consumer: %w", err)
		}
		out.Consumer = consumer
	}

	if clients.Upstream == nil {
		return out, nil
	}
	if clients.Temporal != nil {
		runner, err := temporalworker.NewRunner(log, clients.Temporal, cfg.Temporal, engine, metrics)
		if err != nil {
			return Services{}, fmt.Errorf("init temporal worker: %w", err)
		}
		out.TemporalWorker = runner
		return out, nil
	}
	p, err := poller.New(log, engine, cfg.SnapshotInterval, metrics)
	if err != nil {
		return Services{}, fmt.Errorf("init snapshot poller: %w", err)
	}
	out.Poller = p
	return out, nil
}

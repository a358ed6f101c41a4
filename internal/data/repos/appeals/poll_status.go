package appeals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type PollStatusRepo interface {
	Get(dbc dbctx.Context) (*types.PollStatus, error)
	// Touch advances last_poll_at and keeps cases_fetched.
	Touch(dbc dbctx.Context, at time.Time) error
	// Record advances last_poll_at and stores the bulk pass item count.
	Record(dbc dbctx.Context, at time.Time, casesFetched int) error
	AppendRun(dbc dbctx.Context, run *types.PollRun) error
	LatestRuns(dbc dbctx.Context, limit int) ([]*types.PollRun, error)
}

type pollStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPollStatusRepo(db *gorm.DB, baseLog *logger.Logger) PollStatusRepo {
	return &pollStatusRepo{db: db, log: baseLog.With("repo", "PollStatusRepo")}
}

func (r *pollStatusRepo) Get(dbc dbctx.Context) (*types.PollStatus, error) {
	var rows []*types.PollStatus
	if err := dbc.DB(r.db).Where("id = ?", types.PollStatusID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *pollStatusRepo) Touch(dbc dbctx.Context, at time.Time) error {
	return r.upsert(dbc, at, 0, []string{"last_poll_at", "updated_at"})
}

func (r *pollStatusRepo) Record(dbc dbctx.Context, at time.Time, casesFetched int) error {
	return r.upsert(dbc, at, casesFetched, []string{"last_poll_at", "cases_fetched", "updated_at"})
}

func (r *pollStatusRepo) upsert(dbc dbctx.Context, at time.Time, casesFetched int, columns []string) error {
	row := &types.PollStatus{
		ID:           types.PollStatusID,
		LastPollAt:   at.UTC(),
		CasesFetched: casesFetched,
		UpdatedAt:    time.Now().UTC(),
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(row).Error
}

func (r *pollStatusRepo) AppendRun(dbc dbctx.Context, run *types.PollRun) error {
	if run == nil {
		return nil
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(run).Error
}

func (r *pollStatusRepo) LatestRuns(dbc dbctx.Context, limit int) ([]*types.PollRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []*types.PollRun
	if err := dbc.DB(r.db).Order("started_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

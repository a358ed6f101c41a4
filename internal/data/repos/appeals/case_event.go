package appeals

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/appealsync-backend/internal/pkg/errors"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type CaseEventRepo interface {
	Upsert(dbc dbctx.Context, row *types.CaseEvent) error
	ListByCase(dbc dbctx.Context, caseReference string) ([]*types.CaseEvent, error)
	Delete(dbc dbctx.Context, id string) error
	DeleteByCases(dbc dbctx.Context, caseReferences []string) (int64, error)
}

type caseEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseEventRepo(db *gorm.DB, baseLog *logger.Logger) CaseEventRepo {
	return &caseEventRepo{db: db, log: baseLog.With("repo", "CaseEventRepo")}
}

func (r *caseEventRepo) Upsert(dbc dbctx.Context, row *types.CaseEvent) error {
	if row == nil || row.ID == "" {
		return pkgerrors.ErrInvalidArgument
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"case_reference",
				"event_type",
				"event_name",
				"event_status",
				"is_urgent",
				"start_date",
				"end_date",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *caseEventRepo) ListByCase(dbc dbctx.Context, caseReference string) ([]*types.CaseEvent, error) {
	var out []*types.CaseEvent
	if err := dbc.DB(r.db).Where("case_reference = ?", caseReference).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *caseEventRepo) Delete(dbc dbctx.Context, id string) error {
	if id == "" {
		return pkgerrors.ErrInvalidArgument
	}
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.CaseEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *caseEventRepo) DeleteByCases(dbc dbctx.Context, caseReferences []string) (int64, error) {
	var total int64
	err := forChunks(caseReferences, func(chunk []string) error {
		res := dbc.DB(r.db).Where("case_reference IN ?", chunk).Delete(&types.CaseEvent{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	return total, err
}

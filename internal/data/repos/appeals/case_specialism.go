package appeals

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type CaseSpecialismRepo interface {
	ListNames(dbc dbctx.Context, caseReference string) ([]string, error)
	DeleteNotIn(dbc dbctx.Context, caseReference string, keep []string) (int64, error)
	Upsert(dbc dbctx.Context, rows []*types.CaseSpecialism) error
	DeleteByCases(dbc dbctx.Context, caseReferences []string) (int64, error)
}

type caseSpecialismRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseSpecialismRepo(db *gorm.DB, baseLog *logger.Logger) CaseSpecialismRepo {
	return &caseSpecialismRepo{db: db, log: baseLog.With("repo", "CaseSpecialismRepo")}
}

func (r *caseSpecialismRepo) ListNames(dbc dbctx.Context, caseReference string) ([]string, error) {
	var names []string
	err := dbc.DB(r.db).
		Model(&types.CaseSpecialism{}).
		Where("case_reference = ?", caseReference).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// DeleteNotIn removes the case's specialisms whose name is not in keep. An empty keep
// removes them all. keep is one case's specialism list, so it goes out as a single
// bind; a NOT IN cannot be split across chunked statements.
func (r *caseSpecialismRepo) DeleteNotIn(dbc dbctx.Context, caseReference string, keep []string) (int64, error) {
	q := dbc.DB(r.db).Where("case_reference = ?", caseReference)
	if len(keep) > 0 {
		q = q.Where("name NOT IN ?", keep)
	}
	res := q.Delete(&types.CaseSpecialism{})
	return res.RowsAffected, res.Error
}

// Upsert expects rows to be unique on (case_reference, name).
func (r *caseSpecialismRepo) Upsert(dbc dbctx.Context, rows []*types.CaseSpecialism) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "case_reference"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).
		Create(&rows).Error
}

func (r *caseSpecialismRepo) DeleteByCases(dbc dbctx.Context, caseReferences []string) (int64, error) {
	var total int64
	err := forChunks(caseReferences, func(chunk []string) error {
		res := dbc.DB(r.db).Where("case_reference IN ?", chunk).Delete(&types.CaseSpecialism{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	return total, err
}

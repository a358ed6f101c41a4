package appeals

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type InspectorSpecialismRepo interface {
	ListByInspector(dbc dbctx.Context, entraID string) ([]*types.InspectorSpecialism, error)
	DeleteNotIn(dbc dbctx.Context, entraID string, keep []string) (int64, error)
	Upsert(dbc dbctx.Context, rows []*types.InspectorSpecialism) error
	DeleteByInspector(dbc dbctx.Context, entraID string) (int64, error)
}

type inspectorSpecialismRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInspectorSpecialismRepo(db *gorm.DB, baseLog *logger.Logger) InspectorSpecialismRepo {
	return &inspectorSpecialismRepo{db: db, log: baseLog.With("repo", "InspectorSpecialismRepo")}
}

func (r *inspectorSpecialismRepo) ListByInspector(dbc dbctx.Context, entraID string) ([]*types.InspectorSpecialism, error) {
	var out []*types.InspectorSpecialism
	if err := dbc.DB(r.db).Where("inspector_entra_id = ?", entraID).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteNotIn removes the inspector's specialisms whose name is not in keep. keep is
// one inspector's specialism list and is bound whole; unlike the forChunks deletes,
// a NOT IN cannot be split.
func (r *inspectorSpecialismRepo) DeleteNotIn(dbc dbctx.Context, entraID string, keep []string) (int64, error) {
	q := dbc.DB(r.db).Where("inspector_entra_id = ?", entraID)
	if len(keep) > 0 {
		q = q.Where("name NOT IN ?", keep)
	}
	res := q.Delete(&types.InspectorSpecialism{})
	return res.RowsAffected, res.Error
}

// Upsert expects rows to be unique on (inspector_entra_id, name).
func (r *inspectorSpecialismRepo) Upsert(dbc dbctx.Context, rows []*types.InspectorSpecialism) error {
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
			Columns:   []clause.Column{{Name: "inspector_entra_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"proficiency", "valid_from", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *inspectorSpecialismRepo) DeleteByInspector(dbc dbctx.Context, entraID string) (int64, error) {
	res := dbc.DB(r.db).Where("inspector_entra_id = ?", entraID).Delete(&types.InspectorSpecialism{})
	return res.RowsAffected, res.Error
}

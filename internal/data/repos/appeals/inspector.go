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

type InspectorRepo interface {
	Upsert(dbc dbctx.Context, row *types.Inspector) error
	GetByEntraID(dbc dbctx.Context, entraID string) (*types.Inspector, error)
	Delete(dbc dbctx.Context, entraID string) error
}

type inspectorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInspectorRepo(db *gorm.DB, baseLog *logger.Logger) InspectorRepo {
	return &inspectorRepo{db: db, log: baseLog.With("repo", "InspectorRepo")}
}

func (r *inspectorRepo) Upsert(dbc dbctx.Context, row *types.Inspector) error {
	if row == nil || row.EntraID == "" {
		return pkgerrors.ErrInvalidArgument
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	return dbc.DB(r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entra_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name",
				"last_name",
				"email",
				"grade",
				"fte",
				"postcode",
				"latitude",
				"longitude",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *inspectorRepo) GetByEntraID(dbc dbctx.Context, entraID string) (*types.Inspector, error) {
	if entraID == "" {
		return nil, nil
	}
	var rows []*types.Inspector
	if err := dbc.DB(r.db).Where("entra_id = ?", entraID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *inspectorRepo) Delete(dbc dbctx.Context, entraID string) error {
	if entraID == "" {
		return pkgerrors.ErrInvalidArgument
	}
	res := dbc.DB(r.db).Where("entra_id = ?", entraID).Delete(&types.Inspector{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

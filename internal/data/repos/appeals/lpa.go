package appeals

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/appealsync-backend/internal/pkg/errors"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type LpaRepo interface {
	GetByCode(dbc dbctx.Context, code string) (*types.Lpa, error)
	EnsureByCode(dbc dbctx.Context, code, name string) (*types.Lpa, error)
}

type lpaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLpaRepo(db *gorm.DB, baseLog *logger.Logger) LpaRepo {
	return &lpaRepo{db: db, log: baseLog.With("repo", "LpaRepo")}
}

func (r *lpaRepo) GetByCode(dbc dbctx.Context, code string) (*types.Lpa, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var rows []*types.Lpa
	if err := dbc.DB(r.db).Where("lpa_code = ?", code).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// EnsureByCode returns the authority for code, creating it when absent. A non-empty
// name overwrites the stored one; an empty name leaves it alone.
func (r *lpaRepo) EnsureByCode(dbc dbctx.Context, code, name string) (*types.Lpa, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	now := time.Now().UTC()
	row := &types.Lpa{
		ID:        uuid.New(),
		LpaCode:   code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "lpa_code"}}, DoNothing: true}
	if name != "" {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "lpa_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}
	}
	if err := dbc.DB(r.db).Clauses(onConflict).Create(row).Error; err != nil {
		return nil, err
	}
	// The insert may have hit an existing row, so read back the stored id.
	return r.GetByCode(dbc, code)
}

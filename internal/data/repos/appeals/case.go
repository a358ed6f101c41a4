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

type CaseRepo interface {
	Upsert(dbc dbctx.Context, row *types.Case) error
	GetByReference(dbc dbctx.Context, reference string) (*types.Case, error)
	ListReferences(dbc dbctx.Context) ([]string, error)
	ListSiteLocations(dbc dbctx.Context, references []string) (map[string]*types.Case, error)
	UnlinkChildren(dbc dbctx.Context, leadReferences []string) (int64, error)
	Delete(dbc dbctx.Context, reference string) error
	DeleteByReferences(dbc dbctx.Context, references []string) (int64, error)
}

type caseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseRepo(db *gorm.DB, baseLog *logger.Logger) CaseRepo {
	return &caseRepo{db: db, log: baseLog.With("repo", "CaseRepo")}
}

// Every column except the natural key and created_at is overwritten on conflict.
var caseUpsertColumns = []string{
	"case_id",
	"appeal_type",
	"case_type",
	"case_status",
	"case_procedure",
	"allocation_level",
	"allocation_band",
	"original_development_description",
	"site_address_line1",
	"site_address_line2",
	"site_address_town",
	"site_address_county",
	"site_address_postcode",
	"site_latitude",
	"site_longitude",
	"lpa_id",
	"lead_case_reference",
	"linked_case_status",
	"case_received_date",
	"case_valid_date",
	"case_started_date",
	"type_of_planning_application",
	"development_type",
	"site_area_square_metres",
	"is_green_belt",
	"updated_at",
}

func (r *caseRepo) Upsert(dbc dbctx.Context, row *types.Case) error {
	if row == nil || row.Reference == "" {
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
			Columns:   []clause.Column{{Name: "reference"}},
			DoUpdates: clause.AssignmentColumns(caseUpsertColumns),
		}).
		Create(row).Error
}

func (r *caseRepo) GetByReference(dbc dbctx.Context, reference string) (*types.Case, error) {
	if reference == "" {
		return nil, nil
	}
	var rows []*types.Case
	if err := dbc.DB(r.db).Where("reference = ?", reference).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *caseRepo) ListReferences(dbc dbctx.Context) ([]string, error) {
	var refs []string
	if err := dbc.DB(r.db).Model(&types.Case{}).Order("reference ASC").Pluck("reference", &refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// ListSiteLocations returns reference, postcode and coordinates keyed by reference.
func (r *caseRepo) ListSiteLocations(dbc dbctx.Context, references []string) (map[string]*types.Case, error) {
	out := make(map[string]*types.Case, len(references))
	err := forChunks(references, func(chunk []string) error {
		var rows []*types.Case
		if err := dbc.DB(r.db).
			Select("reference", "site_address_postcode", "site_latitude", "site_longitude").
			Where("reference IN ?", chunk).
			Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			out[row.Reference] = row
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UnlinkChildren clears the lead pointer of every case that references one of leadReferences.
func (r *caseRepo) UnlinkChildren(dbc dbctx.Context, leadReferences []string) (int64, error) {
	var total int64
	err := forChunks(leadReferences, func(chunk []string) error {
		res := dbc.DB(r.db).
			Model(&types.Case{}).
			Where("lead_case_reference IN ?", chunk).
			Updates(map[string]interface{}{
				"lead_case_reference": nil,
				"linked_case_status":  nil,
			})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	return total, err
}

// Delete removes one case row and returns ErrNotFound when nothing matched.
func (r *caseRepo) Delete(dbc dbctx.Context, reference string) error {
	if reference == "" {
		return pkgerrors.ErrInvalidArgument
	}
	res := dbc.DB(r.db).Where("reference = ?", reference).Delete(&types.Case{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *caseRepo) DeleteByReferences(dbc dbctx.Context, references []string) (int64, error) {
	var total int64
	err := forChunks(references, func(chunk []string) error {
		res := dbc.DB(r.db).Where("reference IN ?", chunk).Delete(&types.Case{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	return total, err
}

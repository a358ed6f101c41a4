package appeals

import (
	"time"

	"github.com/google/uuid"
)

const (
	AppealTypeHAS = "appeal-has"
	AppealTypeS78 = "appeal-s78"
)

const (
	LinkedCaseStatusLead  = "lead"
	LinkedCaseStatusChild = "child"
)

// Case is an unassigned appeal awaiting allocation. Assigned cases are never stored.
type Case struct {
	Reference  string `gorm:"column:reference;primaryKey" json:"reference"`
	CaseID     *int   `gorm:"column:case_id;index" json:"case_id,omitempty"`
	AppealType string `gorm:"column:appeal_type;not null;index" json:"appeal_type"`

	CaseType        *string `gorm:"column:case_type" json:"case_type,omitempty"`
	CaseStatus      *string `gorm:"column:case_status;index" json:"case_status,omitempty"`
	CaseProcedure   *string `gorm:"column:case_procedure" json:"case_procedure,omitempty"`
	AllocationLevel *string `gorm:"column:allocation_level;index" json:"allocation_level,omitempty"`
	AllocationBand  *int    `gorm:"column:allocation_band" json:"allocation_band,omitempty"`

	OriginalDevelopmentDescription *string `gorm:"column:original_development_description;type:text" json:"original_development_description,omitempty"`

	SiteAddressLine1    *string  `gorm:"column:site_address_line1" json:"site_address_line1,omitempty"`
	SiteAddressLine2    *string  `gorm:"column:site_address_line2" json:"site_address_line2,omitempty"`
	SiteAddressTown     *string  `gorm:"column:site_address_town" json:"site_address_town,omitempty"`
	SiteAddressCounty   *string  `gorm:"column:site_address_county" json:"site_address_county,omitempty"`
	SiteAddressPostcode *string  `gorm:"column:site_address_postcode" json:"site_address_postcode,omitempty"`
	SiteLatitude        *float64 `gorm:"column:site_latitude" json:"site_latitude,omitempty"`
	SiteLongitude       *float64 `gorm:"column:site_longitude" json:"site_longitude,omitempty"`

	LpaID *uuid.UUID `gorm:"type:uuid;column:lpa_id;index" json:"lpa_id,omitempty"`

	LeadCaseReference *string `gorm:"column:lead_case_reference;index" json:"lead_case_reference,omitempty"`
	LinkedCaseStatus  *string `gorm:"column:linked_case_status" json:"linked_case_status,omitempty"`

	CaseReceivedDate *time.Time `gorm:"column:case_received_date" json:"case_received_date,omitempty"`
	CaseValidDate    *time.Time `gorm:"column:case_valid_date" json:"case_valid_date,omitempty"`
	CaseStartedDate  *time.Time `gorm:"column:case_started_date" json:"case_started_date,omitempty"`

	// S78 only.
	TypeOfPlanningApplication *string  `gorm:"column:type_of_planning_application" json:"type_of_planning_application,omitempty"`
	DevelopmentType           *string  `gorm:"column:development_type" json:"development_type,omitempty"`
	SiteAreaSquareMetres      *float64 `gorm:"column:site_area_square_metres" json:"site_area_square_metres,omitempty"`
	IsGreenBelt               *bool    `gorm:"column:is_green_belt" json:"is_green_belt,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;index" json:"updated_at"`

	Lpa         *Lpa             `gorm:"foreignKey:LpaID;references:ID" json:"lpa,omitempty"`
	Specialisms []CaseSpecialism `gorm:"foreignKey:CaseReference;references:Reference" json:"specialisms,omitempty"`
	Events      []CaseEvent      `gorm:"foreignKey:CaseReference;references:Reference" json:"events,omitempty"`
}

func (Case) TableName() string { return "appeal_case" }

// CaseSpecialism names a specialism the case requires; unique per case.
type CaseSpecialism struct {
	CaseReference string    `gorm:"column:case_reference;primaryKey" json:"case_reference"`
	Name          string    `gorm:"column:name;primaryKey" json:"name"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (CaseSpecialism) TableName() string { return "case_specialism" }

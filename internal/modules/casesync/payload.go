package casesync

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
)

// CaseCore is the field set shared by every appeal type.
type CaseCore struct {
	CaseReference                  string    `json:"caseReference"`
	CaseID                         *int      `json:"caseId"`
	CaseType                       *string   `json:"caseType"`
	CaseStatus                     *string   `json:"caseStatus"`
	CaseProcedure                  *string   `json:"caseProcedure"`
	AllocationLevel                *string   `json:"allocationLevel"`
	AllocationBand                 *int      `json:"allocationBand"`
	OriginalDevelopmentDescription *string   `json:"originalDevelopmentDescription"`
	SiteAddressLine1               *string   `json:"siteAddressLine1"`
	SiteAddressLine2               *string   `json:"siteAddressLine2"`
	SiteAddressTown                *string   `json:"siteAddressTown"`
	SiteAddressCounty              *string   `json:"siteAddressCounty"`
	SiteAddressPostcode            *string   `json:"siteAddressPostcode"`
	LpaCode                        *string   `json:"lpaCode"`
	LpaName                        *string   `json:"lpaName"`
	LeadCaseReference              *string   `json:"leadCaseReference"`
	LinkedCaseStatus               *string   `json:"linkedCaseStatus"`
	InspectorID                    *string   `json:"inspectorId"`
	CaseReceivedDate               *string   `json:"caseReceivedDate"`
	CaseValidDate                  *string   `json:"caseValidDate"`
	CaseStartedDate                *string   `json:"caseStartedDate"`
	CaseSpecialisms                []*string `json:"caseSpecialisms"`
}

// S78Details carries the columns only section 78 appeals populate.
type S78Details struct {
	TypeOfPlanningApplication *string  `json:"typeOfPlanningApplication"`
	DevelopmentType           *string  `json:"developmentType"`
	SiteAreaSquareMetres      *float64 `json:"siteAreaSquareMetres"`
	IsGreenBelt               *bool    `json:"isGreenBelt"`
}

// CasePayload is a decoded case message. Kind is the schema name it was read
// against; S78 is non-nil exactly when Kind is schema.NameCaseS78.
type CasePayload struct {
	Kind string
	CaseCore
	S78 *S78Details
}

// Assigned reports whether the case has an inspector and so leaves this store.
func (p *CasePayload) Assigned() bool {
	return p.InspectorID != nil && strings.TrimSpace(*p.InspectorID) != ""
}

func DecodeCasePayload(kind string, raw []byte) (*CasePayload, error) {
	switch kind {
	case schema.NameCaseHAS, schema.NameCaseS78:
	default:
		return nil, fmt.Errorf("unknown case kind %q", kind)
	}
	out := &CasePayload{Kind: kind}
	if err := json.Unmarshal(raw, &out.CaseCore); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	if kind == schema.NameCaseS78 {
		out.S78 = &S78Details{}
		if err := json.Unmarshal(raw, out.S78); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
	}
	out.CaseReference = strings.TrimSpace(out.CaseReference)
	return out, nil
}

type SpecialismPayload struct {
	Name        *string `json:"name"`
	Proficiency *string `json:"proficiency"`
	ValidFrom   *string `json:"validFrom"`
}

type InspectorPayload struct {
	EntraID     string              `json:"entraId"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Email       *string             `json:"email"`
	Grade       *string             `json:"grade"`
	FTE         *float64            `json:"fte"`
	Postcode    *string             `json:"postcode"`
	Specialisms []SpecialismPayload `json:"specialisms"`
}

func DecodeInspectorPayload(raw []byte) (*InspectorPayload, error) {
	out := &InspectorPayload{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode inspector payload: %w", err)
	}
	out.EntraID = strings.TrimSpace(out.EntraID)
	return out, nil
}

type EventPayload struct {
	EventID            string  `json:"eventId"`
	CaseReference      string  `json:"caseReference"`
	EventType          string  `json:"eventType"`
	EventName          *string `json:"eventName"`
	EventStatus        *string `json:"eventStatus"`
	IsUrgent           *bool   `json:"isUrgent"`
	EventStartDateTime *string `json:"eventStartDateTime"`
	EventEndDateTime   *string `json:"eventEndDateTime"`
}

func DecodeEventPayload(raw []byte) (*EventPayload, error) {
	out := &EventPayload{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode event payload: %w", err)
	}
	out.EventID = strings.TrimSpace(out.EventID)
	out.CaseReference = strings.TrimSpace(out.CaseReference)
	return out, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate reads an optional date or timestamp. Zoneless values are taken as UTC.
func parseDate(v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", s)
}

package casesync

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/pointers"
)

// caseRow maps a payload onto the appeal_case columns. lpaID is resolved separately
// inside the transaction.
func caseRow(p *CasePayload, lat, lng *float64, lpaID *uuid.UUID) (*types.Case, error) {
	row := &types.Case{
		Reference:                      p.CaseReference,
		CaseID:                         p.CaseID,
		AppealType:                     p.Kind,
		CaseType:                       pointers.TrimmedOrNil(p.CaseType),
		CaseStatus:                     pointers.TrimmedOrNil(p.CaseStatus),
		CaseProcedure:                  pointers.TrimmedOrNil(p.CaseProcedure),
		AllocationLevel:                pointers.TrimmedOrNil(p.AllocationLevel),
		AllocationBand:                 p.AllocationBand,
		OriginalDevelopmentDescription: pointers.TrimmedOrNil(p.OriginalDevelopmentDescription),
		SiteAddressLine1:               pointers.TrimmedOrNil(p.SiteAddressLine1),
		SiteAddressLine2:               pointers.TrimmedOrNil(p.SiteAddressLine2),
		SiteAddressTown:                pointers.TrimmedOrNil(p.SiteAddressTown),
		SiteAddressCounty:              pointers.TrimmedOrNil(p.SiteAddressCounty),
		SiteAddressPostcode:            normalizePostcode(p.SiteAddressPostcode),
		SiteLatitude:                   lat,
		SiteLongitude:                  lng,
		LpaID:                          lpaID,
		LeadCaseReference:              pointers.TrimmedOrNil(p.LeadCaseReference),
		LinkedCaseStatus:               pointers.TrimmedOrNil(p.LinkedCaseStatus),
	}

	verr := &ValidationError{Schema: p.Kind, Key: p.CaseReference}
	row.CaseReceivedDate = dateField(verr, "/caseReceivedDate", p.CaseReceivedDate)
	row.CaseValidDate = dateField(verr, "/caseValidDate", p.CaseValidDate)
	row.CaseStartedDate = dateField(verr, "/caseStartedDate", p.CaseStartedDate)
	if len(verr.Errors) > 0 {
		return nil, verr
	}

	if p.Kind == schema.NameCaseS78 && p.S78 != nil {
		row.TypeOfPlanningApplication = pointers.TrimmedOrNil(p.S78.TypeOfPlanningApplication)
		row.DevelopmentType = pointers.TrimmedOrNil(p.S78.DevelopmentType)
		row.SiteAreaSquareMetres = p.S78.SiteAreaSquareMetres
		row.IsGreenBelt = p.S78.IsGreenBelt
	}
	return row, nil
}

// caseSpecialismRows trims names, drops blanks and collapses duplicates.
func caseSpecialismRows(reference string, names []*string) ([]*types.CaseSpecialism, []string) {
	seen := map[string]bool{}
	rows := make([]*types.CaseSpecialism, 0, len(names))
	keep := make([]string, 0, len(names))
	for _, n := range names {
		name := strings.TrimSpace(pointers.Deref(n))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		rows = append(rows, &types.CaseSpecialism{CaseReference: reference, Name: name})
		keep = append(keep, name)
	}
	return rows, keep
}

func inspectorRow(p *InspectorPayload, c types.Coordinates) *types.Inspector {
	return &types.Inspector{
		EntraID:   p.EntraID,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     pointers.TrimmedOrNil(p.Email),
		Grade:     pointers.TrimmedOrNil(p.Grade),
		FTE:       p.FTE,
		Postcode:  pointers.Deref(normalizePostcode(p.Postcode)),
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}
}

// inspectorSpecialismRows drops unnamed entries. For a repeated name the last
// entry's attributes win; the row keeps the position of its first occurrence.
func inspectorSpecialismRows(entraID string, in []SpecialismPayload) ([]*types.InspectorSpecialism, []string, error) {
	verr := &ValidationError{Schema: schema.NameInspector, Key: entraID}
	index := map[string]int{}
	rows := make([]*types.InspectorSpecialism, 0, len(in))
	for i, sp := range in {
		name := strings.TrimSpace(pointers.Deref(sp.Name))
		if name == "" {
			continue
		}
		row := &types.InspectorSpecialism{
			InspectorEntraID: entraID,
			Name:             name,
			Proficiency:      pointers.TrimmedOrNil(sp.Proficiency),
		}
		if t := dateField(verr, "/specialisms/"+strconv.Itoa(i)+"/validFrom", sp.ValidFrom); t != nil {
			d := datatypes.Date(*t)
			row.ValidFrom = &d
		}
		if at, ok := index[name]; ok {
			rows[at] = row
			continue
		}
		index[name] = len(rows)
		rows = append(rows, row)
	}
	if len(verr.Errors) > 0 {
		return nil, nil, verr
	}
	keep := make([]string, 0, len(rows))
	for _, r := range rows {
		keep = append(keep, r.Name)
	}
	return rows, keep, nil
}

func eventRow(p *EventPayload) (*types.CaseEvent, error) {
	verr := &ValidationError{Schema: schema.NameEvent, Key: p.EventID}
	row := &types.CaseEvent{
		ID:            p.EventID,
		CaseReference: p.CaseReference,
		EventType:     strings.TrimSpace(p.EventType),
		EventName:     pointers.TrimmedOrNil(p.EventName),
		EventStatus:   pointers.TrimmedOrNil(p.EventStatus),
		IsUrgent:      pointers.Deref(p.IsUrgent),
		StartDate:     dateField(verr, "/eventStartDateTime", p.EventStartDateTime),
		EndDate:       dateField(verr, "/eventEndDateTime", p.EventEndDateTime),
	}
	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return row, nil
}

func dateField(verr *ValidationError, path string, v *string) *time.Time {
	t, err := parseDate(v)
	if err != nil {
		verr.Errors = append(verr.Errors, FieldError{Path: path, Message: err.Error()})
		return nil
	}
	return t
}

// normalizePostcode upper-cases and collapses inner whitespace.
func normalizePostcode(v *string) *string {
	p := pointers.TrimmedOrNil(v)
	if p == nil {
		return nil
	}
	s := strings.ToUpper(strings.Join(strings.Fields(*p), " "))
	return &s
}

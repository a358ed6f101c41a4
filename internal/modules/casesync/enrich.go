package casesync

import (
	"context"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/pointers"
)

// siteCoordinates resolves a case site. Every failure is logged and yields nil
// coordinates so the case is still stored.
func (e *Engine) siteCoordinates(ctx context.Context, reference string, postcode *string) (*float64, *float64) {
	pc := normalizePostcode(postcode)
	if pc == nil {
		e.log.Info("case has no site postcode, storing without coordinates", "case_reference", reference)
		return nil, nil
	}
	if e.geocoder == nil {
		e.log.Warn("no geocoder configured, storing case without coordinates", "case_reference", reference)
		return nil, nil
	}
	c, err := e.geocoder.Resolve(ctx, *pc)
	if err != nil {
		e.log.Warn("geocode failed, storing case without coordinates",
			"case_reference", reference,
			"postcode", *pc,
			"error", err,
		)
		return nil, nil
	}
	lat, lng := c.Latitude, c.Longitude
	return &lat, &lng
}

// inspectorCoordinates resolves an inspector's home postcode. Inspectors are
// unusable for allocation without a location, so failures are returned.
func (e *Engine) inspectorCoordinates(ctx context.Context, entraID string, postcode *string) (types.Coordinates, error) {
	pc := pointers.Deref(normalizePostcode(postcode))
	if pc == "" {
		return types.Coordinates{}, &EnrichmentError{Entity: EntityInspector, Key: entraID, Reason: "postcode missing"}
	}
	if e.geocoder == nil {
		return types.Coordinates{}, &EnrichmentError{Entity: EntityInspector, Key: entraID, Reason: "no geocoder configured"}
	}
	c, err := e.geocoder.Resolve(ctx, pc)
	if err != nil {
		return types.Coordinates{}, &EnrichmentError{Entity: EntityInspector, Key: entraID, Reason: "lookup failed", Err: err}
	}
	return c, nil
}

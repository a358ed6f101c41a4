package handlers

import (
	"errors"
	"net/http"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/pkg/httpx"
	"github.com/yungbote/appealsync-backend/internal/platform/apierr"
)

var errInvalidLimit = errors.New("limit must be between 1 and 100")

// snapshotError maps a failed manual snapshot onto an API status. Anything
// unrecognised is left for the caller's 500.
func snapshotError(err error) error {
	if errors.Is(err, casesync.ErrNoFetcher) {
		return apierr.New(http.StatusServiceUnavailable, "snapshot_unavailable", err)
	}
	var sc httpx.HTTPStatusCoder
	if errors.As(err, &sc) {
		return apierr.New(http.StatusBadGateway, "upstream_failed", err)
	}
	return err
}

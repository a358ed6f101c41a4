package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/pkg/httpx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

// ErrNoResults is returned when the lookup succeeds but matches nothing usable.
var ErrNoResults = errors.New("geocode: no results")

type Client interface {
	Resolve(ctx context.Context, postcode string) (types.Coordinates, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

type client struct {
	log    *logger.Logger
	http   *resty.Client
	apiKey string
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing geocode base url")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	httpx.Retrying(rc, cfg.RetryCount, 200*time.Millisecond, 2*time.Second)
	return &client{
		log:    log.With("client", "GeocodeClient"),
		http:   rc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

// placesResponse is the subset of the OS Places postcode response we read.
type placesResponse struct {
	Header struct {
		TotalResults int `json:"totalresults"`
	} `json:"header"`
	Results []struct {
		DPA struct {
			Postcode string   `json:"POSTCODE"`
			Lat      *float64 `json:"LAT"`
			Lng      *float64 `json:"LNG"`
		} `json:"DPA"`
	} `json:"results"`
}

func (c *client) Resolve(ctx context.Context, postcode string) (types.Coordinates, error) {
	pc := Normalize(postcode)
	if pc == "" {
		return types.Coordinates{}, fmt.Errorf("geocode: postcode required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var out placesResponse
	params := map[string]string{
		"postcode":   pc,
		"output_srs": "EPSG:4326",
	}
	if c.apiKey != "" {
		params["key"] = c.apiKey
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		ForceContentType("application/json").
		Get("/search/places/v1/postcode")
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return types.Coordinates{}, httpx.NewStatusError("geocode "+pc, resp)
	}
	for _, r := range out.Results {
		if r.DPA.Lat != nil && r.DPA.Lng != nil {
			c.log.Debug("postcode resolved", "postcode", pc, "results", len(out.Results))
			return types.Coordinates{Latitude: *r.DPA.Lat, Longitude: *r.DPA.Lng}, nil
		}
	}
	return types.Coordinates{}, ErrNoResults
}

// Normalize upper-cases a postcode and collapses inner whitespace.
func Normalize(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), " "))
}

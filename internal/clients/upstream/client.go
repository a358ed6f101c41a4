package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync/schema"
	"github.com/yungbote/appealsync-backend/internal/pkg/httpx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

// Client reads the authoritative case list from the appeals back office.
type Client interface {
	FetchAllCases(ctx context.Context) (*casesync.Snapshot, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	PageSize   int
	Timeout    time.Duration
	RetryCount int
	// MaxPages guards against a server that never reports its last page.
	MaxPages int
}

type client struct {
	log      *logger.Logger
	http     *resty.Client
	pageSize int
	maxPages int
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing upstream base url")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10000
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	httpx.Retrying(rc, cfg.RetryCount, 1*time.Second, 5*time.Second)
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		rc.SetHeader("X-Api-Key", key)
	}
	return &client{
		log:      log.With("client", "UpstreamClient"),
		http:     rc,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
	}, nil
}

type page struct {
	Items     []json.RawMessage `json:"items"`
	Page      int               `json:"page"`
	PageCount int               `json:"pageCount"`
}

// FetchAllCases pages through /appeals until the last page. Any page failure fails
// the whole fetch.
func (c *client) FetchAllCases(ctx context.Context) (*casesync.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out := &casesync.Snapshot{}
	for n := 1; n <= c.maxPages; n++ {
		var p page
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"page":     strconv.Itoa(n),
				"pageSize": strconv.Itoa(c.pageSize),
			}).
			SetResult(&p).
			ForceContentType("application/json").
			Get("/appeals")
		if err != nil {
			return nil, fmt.Errorf("fetch appeals page %d: %w", n, err)
		}
		if resp.IsError() {
			return nil, httpx.NewStatusError(fmt.Sprintf("fetch appeals page %d", n), resp)
		}
		for i, raw := range p.Items {
			cp, err := decodeItem(raw)
			if err != nil {
				return nil, fmt.Errorf("appeals page %d item %d: %w", n, i, err)
			}
			out.Cases = append(out.Cases, cp)
			out.CaseReferences = append(out.CaseReferences, cp.CaseReference)
		}
		if p.PageCount <= n || len(p.Items) == 0 {
			c.log.Info("upstream snapshot fetched", "pages", n, "cases", len(out.Cases))
			return out, nil
		}
	}
	return nil, fmt.Errorf("fetch appeals: more than %d pages", c.maxPages)
}

func decodeItem(raw json.RawMessage) (*casesync.CasePayload, error) {
	var head struct {
		AppealType string `json:"appealType"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	kind := strings.TrimSpace(head.AppealType)
	switch kind {
	case "", schema.NameCaseHAS:
		kind = schema.NameCaseHAS
	case schema.NameCaseS78:
	default:
		return nil, fmt.Errorf("unknown appeal type %q", kind)
	}
	return casesync.DecodeCasePayload(kind, raw)
}

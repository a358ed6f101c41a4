package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

func TestResolve(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/places/v1/postcode" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		switch r.URL.Query().Get("postcode") {
		case "BS1 6PN":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"header":{"totalresults":2},"results":[{"DPA":{"POSTCODE":"BS1 6PN"}},{"DPA":{"POSTCODE":"BS1 6PN","LAT":51.4545,"LNG":-2.5879}}]}`))
		case "ZZ9 9ZZ":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"header":{"totalresults":0}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"statuscode":400,"message":"Requested postcode must contain a minimum of the sector plus 1 digit"}}`))
		}
	}))
	defer srv.Close()

	c, err := New(logger.NewNop(), Config{BaseURL: srv.URL, APIKey: "k", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Resolve(context.Background(), " bs1  6pn ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Latitude != 51.4545 || got.Longitude != -2.5879 {
		t.Fatalf("coordinates: %+v", got)
	}
	if gotQuery == "" || !strings.Contains(gotQuery, "output_srs=EPSG%3A4326") || !strings.Contains(gotQuery, "key=k") {
		t.Fatalf("query: %s", gotQuery)
	}

	if _, err := c.Resolve(context.Background(), "ZZ9 9ZZ"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("want ErrNoResults, got %v", err)
	}
	if _, err := c.Resolve(context.Background(), "BAD"); err == nil {
		t.Fatalf("expected http error")
	}
	if _, err := c.Resolve(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank postcode")
	}
}

func TestResolveTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(logger.NewNop(), Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Resolve(context.Background(), "BS1 6PN"); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"bs1 6pn":    "BS1 6PN",
		"  M1   1AE": "M1 1AE",
		"":           "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q): got %q want %q", in, got, want)
		}
	}
}

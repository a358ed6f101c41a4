package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("no upstream configured")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"cause", New(http.StatusServiceUnavailable, "snapshot_unavailable", cause), "no upstream configured"},
		{"code only", New(http.StatusBadRequest, "invalid_limit", nil), "invalid_limit"},
		{"status only", New(http.StatusBadGateway, "", nil), "api error (502)"},
		{"empty", &Error{}, "api error"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Fatalf("%s: Error()=%q want %q", tt.name, got, tt.want)
		}
	}

	wrapped := fmt.Errorf("snapshot: %w", New(http.StatusServiceUnavailable, "snapshot_unavailable", cause))
	var ae *Error
	if !errors.As(wrapped, &ae) || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("errors.As: %v", wrapped)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
}

package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.Code, e.Body)
}

func (e *StatusError) HTTPStatusCode() int { return e.Code }

func NewStatusError(op string, resp *resty.Response) *StatusError {
	if resp == nil {
		return &StatusError{Op: op}
	}
	return &StatusError{Op: op, Code: resp.StatusCode(), Body: truncate(strings.TrimSpace(resp.String()), 256)}
}

func IsRetryableHTTPStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

// RetryCondition retries transport failures other than cancellation, and
// 408/429/5xx responses.
func RetryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	return resp != nil && IsRetryableHTTPStatus(resp.StatusCode())
}

func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// Retrying applies the shared retry policy to rc. A Retry-After header on a
// 429/503 overrides the computed backoff, capped at maxWait.
func Retrying(rc *resty.Client, count int, wait, maxWait time.Duration) *resty.Client {
	if count < 0 {
		count = 0
	}
	return rc.
		SetRetryCount(count).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(maxWait).
		AddRetryCondition(RetryCondition).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp == nil || resp.RawResponse == nil {
				return 0, nil
			}
			if resp.StatusCode() != http.StatusTooManyRequests && resp.StatusCode() != http.StatusServiceUnavailable {
				return 0, nil
			}
			if strings.TrimSpace(resp.Header().Get("Retry-After")) == "" {
				return 0, nil
			}
			return RetryAfterDuration(resp.RawResponse, wait, maxWait), nil
		})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

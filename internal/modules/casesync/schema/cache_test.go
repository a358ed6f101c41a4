package schema

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEmbeddedSchemasCompile(t *testing.T) {
	c := NewCache(EmbeddedLoader{})
	for _, name := range []string{NameCaseHAS, NameCaseS78, NameInspector, NameEvent} {
		v, err := c.Validator(context.Background(), name)
		if err != nil || v == nil {
			t.Fatalf("Validator(%s): v=%v err=%v", name, v, err)
		}
		if v.Name() != name {
			t.Fatalf("Name: want %s got %s", name, v.Name())
		}
	}
	if _, err := c.Validator(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}

func TestValidatorReportsFieldErrors(t *testing.T) {
	v, err := NewCache(nil).Validator(context.Background(), NameInspector)
	if err != nil {
		t.Fatalf("Validator: %v", err)
	}

	if err := v.Validate([]byte(`{"entraId":"x","firstName":"A","lastName":"B","postcode":"BS1 6PN"}`)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	err = v.Validate([]byte(`{"firstName":"A","lastName":"B","fte":3}`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %T %v", err, err)
	}
	if ve.Schema != NameInspector || len(ve.Errors) < 2 {
		t.Fatalf("ValidationError: %+v", ve)
	}
	sawFTE := false
	for _, fe := range ve.Errors {
		if fe.Path == "/fte" {
			sawFTE = true
		}
	}
	if !sawFTE {
		t.Fatalf("expected an error at /fte, got %+v", ve.Errors)
	}

	err = v.Validate([]byte(`{not json`))
	if !errors.As(err, &ve) || len(ve.Errors) != 1 {
		t.Fatalf("malformed json: want one ValidationError entry, got %v", err)
	}
}

func TestCacheBuildsOnceUnderConcurrency(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	loader := LoaderFunc(func(ctx context.Context) ([]Document, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return EmbeddedLoader{}.LoadAll(ctx)
	})
	c := NewCache(loader)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Validator(context.Background(), NameCaseHAS)
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Validator: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("loader calls: want 1 got %d", got)
	}

	// Built set is permanent.
	if _, err := c.Validator(context.Background(), NameCaseS78); err != nil {
		t.Fatalf("Validator after build: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("loader calls after build: want 1 got %d", got)
	}
}

func TestCacheRetriesAfterFailedBuild(t *testing.T) {
	var calls int32
	loader := LoaderFunc(func(ctx context.Context) ([]Document, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("registry unavailable")
		}
		return EmbeddedLoader{}.LoadAll(ctx)
	})
	c := NewCache(loader)

	if _, err := c.Validator(context.Background(), NameCaseHAS); err == nil {
		t.Fatalf("expected first build to fail")
	}
	if _, err := c.Validator(context.Background(), NameCaseHAS); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("loader calls: want 2 got %d", got)
	}
}

func TestCacheRejectsBrokenSchema(t *testing.T) {
	loader := LoaderFunc(func(context.Context) ([]Document, error) {
		return []Document{{Name: "broken", Raw: []byte(`{"type": 12}`)}}, nil
	})
	if err := NewCache(loader).Warm(context.Background()); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestCacheWaiterHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	loader := LoaderFunc(func(ctx context.Context) ([]Document, error) {
		<-release
		return EmbeddedLoader{}.LoadAll(ctx)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := NewCache(loader).Validator(ctx, NameCaseHAS); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

func TestValidatorNumbersAndTrailingData(t *testing.T) {
	v, err := NewCache(nil).Validator(context.Background(), NameCaseHAS)
	if err != nil {
		t.Fatalf("Validator: %v", err)
	}

	if err := v.Validate([]byte(`{"caseReference":"APP/1","caseType":"D","caseId":9007199254740993,"allocationBand":2}`)); err != nil {
		t.Fatalf("integer fields rejected: %v", err)
	}

	var ve *ValidationError
	err = v.Validate([]byte(`{"caseReference":"APP/1","caseType":"D","allocationBand":1.5}`))
	if !errors.As(err, &ve) || len(ve.Errors) != 1 || ve.Errors[0].Path != "/allocationBand" {
		t.Fatalf("want error at /allocationBand, got %v", err)
	}

	err = v.Validate([]byte(`{"caseReference":"APP/1","caseType":"D"} {"x":1}`))
	if !errors.As(err, &ve) || len(ve.Errors) != 1 || ve.Errors[0].Path != "" {
		t.Fatalf("trailing data: want one root error, got %v", err)
	}
}

func TestValidationErrorNamesKey(t *testing.T) {
	err := &ValidationError{Schema: NameCaseHAS, Key: "APP/7", Errors: []FieldError{{Path: "/caseStartedDate", Message: "invalid date"}}}
	want := `payload for "APP/7" does not match schema appeal-has: /caseStartedDate: invalid date`
	if err.Error() != want {
		t.Fatalf("Error()=%q want %q", err.Error(), want)
	}
}

package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("APPEALSYNC_TEST_INT", "42")
	t.Setenv("APPEALSYNC_TEST_BAD_INT", "forty")
	t.Setenv("APPEALSYNC_TEST_BOOL", "yes")
	t.Setenv("APPEALSYNC_TEST_BLANK", "   ")
	t.Setenv("APPEALSYNC_TEST_SECS", "-5")
	t.Setenv("APPEALSYNC_TEST_FLOAT", "0.25")

	if got := Int("APPEALSYNC_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("APPEALSYNC_TEST_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int bad: got %d", got)
	}
	if !Bool("APPEALSYNC_TEST_BOOL", false, nil) {
		t.Fatalf("Bool: expected true")
	}
	if got := String("APPEALSYNC_TEST_BLANK", "def", nil); got != "def" {
		t.Fatalf("String blank: got %q", got)
	}
	if got := Seconds("APPEALSYNC_TEST_SECS", 3, nil); got != 0 {
		t.Fatalf("Seconds negative: got %v", got)
	}
	if got := Float("APPEALSYNC_TEST_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("Float: got %v", got)
	}
	if got := Float("APPEALSYNC_TEST_BAD_INT", 0.5, nil); got != 0.5 {
		t.Fatalf("Float bad: got %v", got)
	}
	if got := Seconds("APPEALSYNC_TEST_UNSET", 3, nil); got != 3*time.Second {
		t.Fatalf("Seconds default: got %v", got)
	}
}

package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"email", "someone@example.org",
		"entra_id", "abc-123",
		"postcode", "BS1 6PN",
		"case_reference", "APP/1",
	})
	if len(out) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("email not redacted: %v", out[1])
	}
	if s, _ := out[3].(string); len(s) != len("hash:")+12 {
		t.Fatalf("entra_id not hashed: %v", out[3])
	}
	if out[5] != "BS1 ***" {
		t.Fatalf("postcode not masked: %v", out[5])
	}
	if out[7] != "APP/1" {
		t.Fatalf("case_reference should pass through: %v", out[7])
	}
}

func TestMaskPostcode(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"BS16PN":   "BS1 ***",
		"SW1A 1AA": "SW1A ***",
		"AB":       "***",
	}
	for in, want := range cases {
		if got := maskPostcode(in); got != want {
			t.Fatalf("maskPostcode(%q) = %q, want %q", in, got, want)
		}
	}
}

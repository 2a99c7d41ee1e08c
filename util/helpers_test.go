package util

import (
	"reflect"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PACK-20260827-120000", "PACK-20260827-120000"},
		{"evidence/log 1", "evidence_log_1"},
		{"a b\tc", "a_b_c"},
	}
	for _, tt := range tests {
		if got := SanitizeKey(tt.in); got != tt.want {
			t.Errorf("SanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("short", 10); got != "short" {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := TruncateRunes("abcdefghij", 4); got != "abcd..." {
		t.Errorf("TruncateRunes = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Is the SWIFT environment segmented?")
	want := []string{"the", "swift", "environment", "segmented"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

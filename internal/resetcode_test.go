package internal

import (
	"strings"
	"testing"
)

func TestNewResetCodeShape(t *testing.T) {
	for _, length := range []int{4, 6, 8, 31, 32} {
		code, err := NewResetCode(length)
		if err != nil {
			t.Fatalf("NewResetCode(%d) failed: %v", length, err)
		}
		if len(code) != length {
			t.Fatalf("NewResetCode(%d) returned %q (len %d)", length, code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				t.Fatalf("NewResetCode(%d) returned non-hex rune %q in %q", length, r, code)
			}
		}
	}
}

func TestNewResetCodeRejectsBadLengths(t *testing.T) {
	for _, length := range []int{-1, 0, 3, 33} {
		if _, err := NewResetCode(length); err == nil {
			t.Fatalf("NewResetCode(%d) unexpectedly succeeded", length)
		}
	}
}

func TestNewResetCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		code, err := NewResetCode(8)
		if err != nil {
			t.Fatalf("NewResetCode failed: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q after %d draws", code, i)
		}
		seen[code] = true
	}
}

func TestNormalizeResetCode(t *testing.T) {
	cases := map[string]string{
		"ab12cd":     "AB12CD",
		"  AB12CD  ": "AB12CD",
		"Ab12Cd":     "AB12CD",
		"AB12CD":     "AB12CD",
	}
	for in, want := range cases {
		if got := NormalizeResetCode(in); got != want {
			t.Errorf("NormalizeResetCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashResetCodeCaseSensitive(t *testing.T) {
	if HashResetCode("AB12CD") == HashResetCode("ab12cd") {
		t.Fatal("digest should differ for different byte strings")
	}
	if HashResetCode("AB12CD") != HashResetCode(NormalizeResetCode("ab12cd")) {
		t.Fatal("normalized submission should reproduce the issuance digest")
	}
}

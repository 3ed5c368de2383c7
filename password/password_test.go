package password

import (
	"strings"
	"testing"
)

type hasher interface {
	Hash(string) (string, error)
	Verify(string, string) (bool, error)
}

func testRoundTrip(t *testing.T, h hasher) {
	t.Helper()

	digest, err := h.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if strings.Contains(digest, "correct-horse-battery") {
		t.Fatal("digest contains the plaintext")
	}

	ok, err := h.Verify("correct-horse-battery", digest)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("Verify rejected the original plaintext")
	}

	ok, err = h.Verify("wrong-password-entirely", digest)
	if err != nil {
		t.Fatalf("Verify on mismatch must not error: %v", err)
	}
	if ok {
		t.Fatal("Verify accepted a wrong password")
	}
}

func testSaltedDigests(t *testing.T, h hasher) {
	t.Helper()

	a, err := h.Hash("same-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := h.Hash("same-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same plaintext are identical; salt missing")
	}
}

func TestBcryptRoundTrip(t *testing.T) {
	h, err := NewBcrypt(10) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}
	testRoundTrip(t, h)
	testSaltedDigests(t, h)
}

func TestBcryptRejectsBadCost(t *testing.T) {
	for _, cost := range []int{0, 4, 9, 32} {
		if _, err := NewBcrypt(cost); err == nil {
			t.Errorf("NewBcrypt(%d) unexpectedly succeeded", cost)
		}
	}
}

func TestBcryptRejectsOverlongPassword(t *testing.T) {
	h, err := NewBcrypt(10)
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("expected error for password beyond bcrypt's 72-byte limit")
	}
}

func TestBcryptMalformedDigest(t *testing.T) {
	h, err := NewBcrypt(10)
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}
	if _, err := h.Verify("whatever-password", "not-a-bcrypt-digest"); err == nil {
		t.Fatal("expected error for malformed digest")
	}
}

func TestArgon2RoundTrip(t *testing.T) {
	cfg := DefaultArgon2Config()
	cfg.Memory = 8 * 1024 // minimum keeps the test fast
	cfg.Time = 1
	h, err := NewArgon2(cfg)
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	testRoundTrip(t, h)
	testSaltedDigests(t, h)
}

func TestArgon2DigestFormat(t *testing.T) {
	cfg := DefaultArgon2Config()
	cfg.Memory = 8 * 1024
	cfg.Time = 1
	h, err := NewArgon2(cfg)
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	digest, err := h.Hash("some-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=") {
		t.Fatalf("digest %q is not PHC-encoded argon2id", digest)
	}
}

func TestArgon2MalformedDigests(t *testing.T) {
	h, err := NewArgon2(DefaultArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	bad := []string{
		"",
		"plainly-wrong",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	}
	for _, digest := range bad {
		if _, err := h.Verify("whatever-password", digest); err == nil {
			t.Errorf("Verify accepted malformed digest %q", digest)
		}
	}
}

func TestArgon2RejectsBadConfig(t *testing.T) {
	bad := []Argon2Config{
		{Memory: 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		{Memory: 64 * 1024, Time: 0, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		{Memory: 64 * 1024, Time: 3, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{Memory: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 8, KeyLength: 32},
		{Memory: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 8},
	}
	for i, cfg := range bad {
		if _, err := NewArgon2(cfg); err == nil {
			t.Errorf("config %d unexpectedly accepted", i)
		}
	}
}

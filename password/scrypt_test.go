package password

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		N:          1 << 12,
		R:          8,
		P:          1,
		SaltLength: 16,
		KeyLength:  32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewScrypt(testConfig())
	if err != nil {
		t.Fatalf("NewScrypt error: %v", err)
	}

	hash, err := hasher.Hash(context.Background(), "correct-horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	parts := strings.Split(hash, ":")
	if len(parts) != 2 {
		t.Fatalf("expected salt:key format, got %q", hash)
	}
	if len(parts[0]) != 32 || len(parts[1]) != 64 {
		t.Fatalf("unexpected segment lengths in %q", hash)
	}

	ok, err := hasher.Verify(context.Background(), "correct-horse", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher, err := NewScrypt(testConfig())
	if err != nil {
		t.Fatalf("NewScrypt error: %v", err)
	}

	hash, err := hasher.Hash(context.Background(), "correct-horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify(context.Background(), "wrong-horse", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail")
	}
}

func TestHashSaltFreshness(t *testing.T) {
	hasher, err := NewScrypt(testConfig())
	if err != nil {
		t.Fatalf("NewScrypt error: %v", err)
	}

	first, err := hasher.Hash(context.Background(), "repeatable")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := hasher.Hash(context.Background(), "repeatable")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}

	for _, h := range []string{first, second} {
		ok, err := hasher.Verify(context.Background(), "repeatable", h)
		if err != nil || !ok {
			t.Fatalf("expected both hashes to verify, got ok=%v err=%v", ok, err)
		}
	}
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	hasher, err := NewScrypt(testConfig())
	if err != nil {
		t.Fatalf("NewScrypt error: %v", err)
	}

	cases := []string{
		"",
		"no-delimiter",
		":",
		"abcd:",
		":abcd",
		"nothex:00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff",
		"00112233445566778899aabbccddeeff:nothex",
		"0011:00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff", // short salt
		"00112233445566778899aabbccddeeff:0011",                                 // short key
		"a:b:c",
	}

	for _, stored := range cases {
		ok, err := hasher.Verify(context.Background(), "anything", stored)
		if ok {
			t.Fatalf("malformed hash %q must not verify", stored)
		}
		if !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("expected ErrMalformedHash for %q, got %v", stored, err)
		}
	}
}

func TestNewScryptRejectsWeakParams(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"n not power of two", func(c *Config) { c.N = 5000 }},
		{"n too small", func(c *Config) { c.N = 1 << 10 }},
		{"r zero", func(c *Config) { c.R = 0 }},
		{"p zero", func(c *Config) { c.P = 0 }},
		{"short salt", func(c *Config) { c.SaltLength = 4 }},
		{"short key", func(c *Config) { c.KeyLength = 8 }},
		{"negative gate", func(c *Config) { c.MaxConcurrent = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := NewScrypt(cfg); err == nil {
				t.Fatal("expected construction to fail")
			}
		})
	}
}

func TestGateHonorsCancelledContext(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrent = 1

	hasher, err := NewScrypt(cfg)
	if err != nil {
		t.Fatalf("NewScrypt error: %v", err)
	}

	// Hold the only slot, then try to hash with a dead context.
	if err := hasher.gate.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer hasher.gate.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := hasher.Hash(ctx, "blocked"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("some.refresh.token")
	b := Fingerprint("some.refresh.token")
	c := Fingerprint("another.refresh.token")

	if a != b {
		t.Fatalf("fingerprint must be deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Fatal("distinct inputs should not collide in this test vector")
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}
}

package password

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"
)

// ErrMalformedHash is returned by [Scrypt.Verify] when the stored hash cannot
// be parsed. Verification fails closed: the boolean result is always false
// alongside this error.
var ErrMalformedHash = errors.New("malformed credential hash")

const (
	minSaltLength = 8
	minKeyLength  = 16
	minCostN      = 1 << 12
	maxCostN      = 1 << 22
)

// Config holds scrypt cost parameters and the concurrency cap.
//
// Config instances are intended to be set during initialization and then
// treated as immutable.
type Config struct {
	N          int // CPU/memory cost, power of two
	R          int // block size
	P          int // parallelism
	SaltLength int
	KeyLength  int

	// MaxConcurrent bounds simultaneous derivations. Zero disables the gate.
	MaxConcurrent int
}

// Scrypt derives and verifies salt:key credential hashes.
type Scrypt struct {
	config Config
	gate   *semaphore.Weighted
}

// NewScrypt validates cfg and returns a ready hasher. Weak or inconsistent
// parameters are rejected at construction time, never per call.
func NewScrypt(cfg Config) (*Scrypt, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	s := &Scrypt{config: cfg}
	if cfg.MaxConcurrent > 0 {
		s.gate = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	return s, nil
}

// Hash derives a key from password under a fresh random salt and returns the
// combined "salt:key" hex encoding. Two calls with the same password produce
// different outputs.
func (s *Scrypt) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}

	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.release()

	salt := make([]byte, s.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key, err := scrypt.Key([]byte(password), salt, s.config.N, s.config.R, s.config.P, s.config.KeyLength)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify re-derives the key with the stored salt and compares in constant
// time. A stored hash that does not parse yields (false, ErrMalformedHash).
func (s *Scrypt) Verify(ctx context.Context, password, stored string) (bool, error) {
	salt, expected, err := splitHash(stored)
	if err != nil {
		return false, err
	}

	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()

	computed, err := scrypt.Key([]byte(password), salt, s.config.N, s.config.R, s.config.P, len(expected))
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func (s *Scrypt) acquire(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	return s.gate.Acquire(ctx, 1)
}

func (s *Scrypt) release() {
	if s.gate != nil {
		s.gate.Release(1)
	}
}

func splitHash(stored string) (salt, key []byte, err error) {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, ErrMalformedHash
	}

	salt, err = hex.DecodeString(parts[0])
	if err != nil || len(salt) < minSaltLength {
		return nil, nil, ErrMalformedHash
	}

	key, err = hex.DecodeString(parts[1])
	if err != nil || len(key) < minKeyLength {
		return nil, nil, ErrMalformedHash
	}

	return salt, key, nil
}

func validateConfig(cfg Config) error {
	if cfg.N < minCostN || cfg.N > maxCostN || cfg.N&(cfg.N-1) != 0 {
		return errors.New("scrypt N must be a power of two between 2^12 and 2^22")
	}
	if cfg.R < 1 {
		return errors.New("scrypt r must be >= 1")
	}
	if cfg.P < 1 {
		return errors.New("scrypt p must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("salt length must be >= 8")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("key length must be >= 16")
	}
	if cfg.MaxConcurrent < 0 {
		return errors.New("max concurrent must be >= 0")
	}
	return nil
}

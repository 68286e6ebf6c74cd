package credpair_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/credpair/credpair"
	"github.com/credpair/credpair/memstore"
	"github.com/credpair/credpair/password"
	"github.com/redis/go-redis/v9"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "correct-horse-battery"
)

func testConfig(t *testing.T) credpair.Config {
	t.Helper()

	cfg := credpair.DefaultConfig()
	cfg.Token.AccessSecret = []byte("access-secret-0123456789abcdef-xx")
	cfg.Token.RefreshSecret = []byte("refresh-secret-0123456789abcdef-x")
	// Weakest accepted scrypt cost keeps the suite fast.
	cfg.Password.N = 1 << 12
	return cfg
}

func seedIdentity(t *testing.T, store *memstore.Store, cfg credpair.Config) credpair.Identity {
	t.Helper()

	hasher, err := password.NewScrypt(password.Config{
		N: cfg.Password.N, R: cfg.Password.R, P: cfg.Password.P,
		SaltLength: cfg.Password.SaltLength, KeyLength: cfg.Password.KeyLength,
	})
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	hash, err := hasher.Hash(context.Background(), testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	return store.Put(credpair.Identity{
		Email:        testEmail,
		Roles:        []credpair.Role{credpair.RoleUser},
		PasswordHash: hash,
	})
}

func newTestEngine(t *testing.T) (*credpair.Engine, *memstore.Store, credpair.Identity) {
	t.Helper()

	cfg := testConfig(t)
	store := memstore.New()
	identity := seedIdentity(t, store, cfg)

	engine, err := credpair.New().WithConfig(cfg).WithStore(store).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, store, identity
}

func newThrottledEngine(t *testing.T, maxLogin, maxRefresh int) (*credpair.Engine, *memstore.Store, credpair.Identity) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig(t)
	cfg.Throttle.Enabled = true
	cfg.Throttle.MaxLoginAttempts = maxLogin
	cfg.Throttle.MaxRefreshAttempts = maxRefresh

	store := memstore.New()
	identity := seedIdentity(t, store, cfg)

	engine, err := credpair.New().WithConfig(cfg).WithStore(store).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, store, identity
}

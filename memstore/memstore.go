// Package memstore provides an in-memory IdentityStore for tests, examples
// and prototypes. Production deployments implement credpair.IdentityStore
// against their own database.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/credpair/credpair"
	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory identity store. The zero value is not
// usable; create one with [New].
type Store struct {
	mu        sync.RWMutex
	byID      map[string]credpair.Identity
	idByEmail map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byID:      make(map[string]credpair.Identity),
		idByEmail: make(map[string]string),
	}
}

// Put inserts or replaces an identity. An empty ID gets a generated UUID.
// The email is normalized so lookups are case-insensitive. Returns the
// stored identity, including any generated ID.
func (s *Store) Put(identity credpair.Identity) credpair.Identity {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	identity.Email = credpair.NormalizeEmail(identity.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[identity.ID]; ok && prev.Email != identity.Email {
		delete(s.idByEmail, prev.Email)
	}
	s.byID[identity.ID] = identity
	s.idByEmail[identity.Email] = identity.ID
	return identity
}

// FindByID returns the identity with the given ID.
func (s *Store) FindByID(ctx context.Context, identityID string) (credpair.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byID[identityID]
	if !ok {
		return credpair.Identity{}, fmt.Errorf("memstore: id %q: %w", identityID, credpair.ErrIdentityMissing)
	}
	return cloneIdentity(identity), nil
}

// FindByEmail returns the identity registered under the normalized email.
func (s *Store) FindByEmail(ctx context.Context, email string) (credpair.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByEmail[credpair.NormalizeEmail(email)]
	if !ok {
		return credpair.Identity{}, fmt.Errorf("memstore: email %q: %w", email, credpair.ErrIdentityMissing)
	}
	return cloneIdentity(s.byID[id]), nil
}

// UpdateRefreshFingerprint overwrites the identity's refresh slot. An empty
// fingerprint clears it.
func (s *Store) UpdateRefreshFingerprint(ctx context.Context, identityID, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.byID[identityID]
	if !ok {
		return fmt.Errorf("memstore: id %q: %w", identityID, credpair.ErrIdentityMissing)
	}
	identity.RefreshFingerprint = fingerprint
	s.byID[identityID] = identity
	return nil
}

func cloneIdentity(identity credpair.Identity) credpair.Identity {
	out := identity
	out.Roles = append([]credpair.Role(nil), identity.Roles...)
	return out
}

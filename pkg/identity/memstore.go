package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// MemoryKeyStore is an in-process KeyStore, used by tests and as the demo
// gateway's fallback when no Postgres DSN is configured. State does not
// survive process restart.
type MemoryKeyStore struct {
	mu    sync.RWMutex
	users map[string]AuthenticatedUser
}

// NewMemoryKeyStore builds an empty MemoryKeyStore.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{users: make(map[string]AuthenticatedUser)}
}

// SaveAuthenticatedUser implements KeyStore.
func (s *MemoryKeyStore) SaveAuthenticatedUser(_ context.Context, user AuthenticatedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// SaveRemoteUser implements KeyStore, retaining only the public identity if
// no authenticated entry already exists for this id.
func (s *MemoryKeyStore) SaveRemoteUser(_ context.Context, user RemoteUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return nil
	}
	s.users[user.ID] = AuthenticatedUser{RemoteUser: user}
	return nil
}

// LoadAuthenticatedUser implements KeyStore.
func (s *MemoryKeyStore) LoadAuthenticatedUser(_ context.Context, id string) (AuthenticatedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok || user.SigningKey == nil {
		return AuthenticatedUser{}, protoerr.New(protoerr.CodeUnknownUser, fmt.Sprintf("no authenticated user stored for %q", id))
	}
	return user, nil
}

// Resolve implements UserResolver over the same storage, so a
// MemoryKeyStore can double as a directory in tests and small deployments.
func (s *MemoryKeyStore) Resolve(_ context.Context, id string) (RemoteUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return RemoteUser{}, protoerr.New(protoerr.CodeUnknownUser, fmt.Sprintf("unknown user %q", id))
	}
	return user.Remote(), nil
}

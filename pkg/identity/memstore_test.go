package identity_test

import (
	"context"

	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

func (s *IdentitySuite) TestMemoryKeyStoreRoundTrip() {
	store := identity.NewMemoryKeyStore()
	alice, err := identity.GenerateAuthenticatedUser("alice")
	s.Require().NoError(err)

	s.Require().NoError(store.SaveAuthenticatedUser(context.Background(), alice))

	loaded, err := store.LoadAuthenticatedUser(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("alice", loaded.ID)
	s.True(loaded.SigningKey.Equal(alice.SigningKey))

	remote, err := store.Resolve(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("alice", remote.ID)
}

func (s *IdentitySuite) TestMemoryKeyStoreLoadMissingUser() {
	store := identity.NewMemoryKeyStore()
	_, err := store.LoadAuthenticatedUser(context.Background(), "ghost")
	s.True(protoerr.HasCode(err, protoerr.CodeUnknownUser))
}

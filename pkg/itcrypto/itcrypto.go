// Package itcrypto is the public API of the log-sharing protocol: the
// programmatic surface spec.md §6.5 names (UserManagement, User,
// SignedLog). It wires pkg/identity and internal/cryptoservice together
// without exposing either's internals to callers.
package itcrypto

import (
	"context"

	"github.com/telekom-mms/go-it-crypto/internal/cryptoservice"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
)

// RemoteUser is a principal known only by its public identity.
type RemoteUser = identity.RemoteUser

// SignedLog is an AccessLog plus its monitor's JWS signature.
type SignedLog = identity.SignedLog

// UserResolver resolves a user id to a RemoteUser for DecryptionService.
type UserResolver = identity.UserResolver

// KeyStore is the out-of-scope key-material collaborator contract.
type KeyStore = identity.KeyStore

// UserOption customises construction of a User.
type UserOption = identity.UserOption

// WithMonitor marks a constructed User as authorised to originate
// AccessLogs.
func WithMonitor(isMonitor bool) UserOption { return identity.WithMonitor(isMonitor) }

// StaticResolver builds a UserResolver over a fixed in-memory map.
func StaticResolver(users map[string]RemoteUser) UserResolver { return identity.StaticResolver(users) }

// User is an AuthenticatedUser able to sign, share, and unwrap log tokens.
type User struct {
	identity.AuthenticatedUser
}

// UserManagement constructs Users, mirroring spec.md §6.5's
// UserManagement.* calls.
type UserManagement struct{}

// ImportAuthenticatedUser builds a User from PEM-encoded certificates and
// private keys.
func (UserManagement) ImportAuthenticatedUser(id string, verifyCertPEM, encryptCertPEM, signingKeyPEM, decryptionKeyPEM []byte, opts ...UserOption) (User, error) {
	u, err := identity.ImportAuthenticatedUser(id, verifyCertPEM, encryptCertPEM, signingKeyPEM, decryptionKeyPEM, opts...)
	if err != nil {
		return User{}, err
	}
	return User{AuthenticatedUser: u}, nil
}

// GenerateAuthenticatedUser mints a fresh keypair and self-signed
// certificates for id. Intended for tests and bootstrap tooling.
func (UserManagement) GenerateAuthenticatedUser(id string, opts ...UserOption) (User, error) {
	u, err := identity.GenerateAuthenticatedUser(id, opts...)
	if err != nil {
		return User{}, err
	}
	return User{AuthenticatedUser: u}, nil
}

// SignAccessLog signs log, producing a SignedLog (spec.md §4.3).
func (u User) SignAccessLog(log model.AccessLog) (SignedLog, error) {
	return cryptoservice.SignAccessLog(u.AuthenticatedUser, log)
}

// EncryptLog builds the nested token sharing signedLog with receivers
// (spec.md §4.4).
func (u User) EncryptLog(signedLog SignedLog, receivers []RemoteUser) (string, error) {
	return cryptoservice.Encrypt(signedLog, u.AuthenticatedUser, receivers)
}

// DecryptLog parses and verifies token, resolving claimed principals via
// resolver, and enforces the cross-layer invariants of spec.md §4.6.
func (u User) DecryptLog(ctx context.Context, token string, resolver UserResolver) (SignedLog, error) {
	return cryptoservice.Decrypt(ctx, token, u.AuthenticatedUser, resolver)
}

// Remote returns the RemoteUser view of u, to hand to other parties as a
// receiver or resolver entry.
func (u User) Remote() RemoteUser { return u.AuthenticatedUser.Remote() }

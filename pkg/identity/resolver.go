package identity

import (
	"context"
	"fmt"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// UserResolver looks up a RemoteUser by id, the sole lookup contract
// DecryptionService depends on (spec.md §4.7). Implementations may hit a
// directory, a cache, or an in-memory map; the core imposes no ordering or
// concurrency requirement beyond returning consistent data for one decrypt
// call.
type UserResolver interface {
	Resolve(ctx context.Context, id string) (RemoteUser, error)
}

// KeyStore is the out-of-scope key-material collaborator spec.md §1 names:
// it stores and retrieves signing/verification/encryption/decryption key
// handles. The protocol core never calls it directly; it exists so
// importAuthenticatedUser/generateAuthenticatedUser callers have somewhere
// to persist and reload the keys they mint.
type KeyStore interface {
	SaveAuthenticatedUser(ctx context.Context, user AuthenticatedUser) error
	LoadAuthenticatedUser(ctx context.Context, id string) (AuthenticatedUser, error)
	SaveRemoteUser(ctx context.Context, user RemoteUser) error
}

// UserResolverFunc adapts a plain function to UserResolver.
type UserResolverFunc func(ctx context.Context, id string) (RemoteUser, error)

// Resolve implements UserResolver.
func (f UserResolverFunc) Resolve(ctx context.Context, id string) (RemoteUser, error) {
	return f(ctx, id)
}

// StaticResolver builds a UserResolver over a fixed in-memory map, useful
// for tests and small deployments.
func StaticResolver(users map[string]RemoteUser) UserResolver {
	return UserResolverFunc(func(_ context.Context, id string) (RemoteUser, error) {
		u, ok := users[id]
		if !ok {
			return RemoteUser{}, protoerr.New(protoerr.CodeUnknownUser, fmt.Sprintf("unknown user %q", id))
		}
		return u, nil
	})
}

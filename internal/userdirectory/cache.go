// Package userdirectory adapts an identity.UserResolver with a Redis-backed
// cache, so repeated DecryptionService calls against the same sharing round
// don't re-hit the upstream directory for every recipient (SPEC_FULL.md §3).
package userdirectory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/telekom-mms/go-it-crypto/internal/platform/metrics"
	"github.com/telekom-mms/go-it-crypto/internal/platform/redis"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

const keyPrefix = "itcrypto:remoteuser:"

// cachedUser is the wire shape stored in Redis: RemoteUser's certificates
// PEM-encoded, since x509.Certificate itself isn't directly JSON-safe.
type cachedUser struct {
	ID             string `json:"id"`
	VerifyCertPEM  []byte `json:"verifyCertPem"`
	EncryptCertPEM []byte `json:"encryptCertPem"`
	Monitor        bool   `json:"monitor"`
}

// CachingResolver decorates an upstream identity.UserResolver with a
// read-through Redis cache keyed by user id.
type CachingResolver struct {
	upstream identity.UserResolver
	client   *redis.Client
	ttl      time.Duration
	metrics  *metrics.Metrics
}

// NewCachingResolver builds a CachingResolver. If client is nil (Redis not
// configured), it simply delegates every lookup to upstream.
func NewCachingResolver(upstream identity.UserResolver, client *redis.Client, ttl time.Duration, m *metrics.Metrics) *CachingResolver {
	return &CachingResolver{upstream: upstream, client: client, ttl: ttl, metrics: m}
}

// Resolve implements identity.UserResolver.
func (r *CachingResolver) Resolve(ctx context.Context, id string) (identity.RemoteUser, error) {
	if r.client == nil {
		return r.upstream.Resolve(ctx, id)
	}

	key := keyPrefix + id
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		user, decodeErr := decodeCachedUser(raw)
		if decodeErr == nil {
			r.metrics.ResolverCacheHits.Inc()
			return user, nil
		}
	}
	r.metrics.ResolverCacheMisses.Inc()

	user, err := r.upstream.Resolve(ctx, id)
	if err != nil {
		return identity.RemoteUser{}, err
	}

	if encoded, encodeErr := encodeCachedUser(user); encodeErr == nil {
		// Best-effort: a cache write failure must not fail the lookup.
		r.client.Set(ctx, key, encoded, r.ttl)
	}
	return user, nil
}

func encodeCachedUser(user identity.RemoteUser) ([]byte, error) {
	c := cachedUser{
		ID:             user.ID,
		VerifyCertPEM:  identity.EncodeCertificatePEM(user.VerificationCertificate),
		EncryptCertPEM: identity.EncodeCertificatePEM(user.EncryptionCertificate),
		Monitor:        user.Monitor,
	}
	return json.Marshal(c)
}

func decodeCachedUser(raw []byte) (identity.RemoteUser, error) {
	var c cachedUser
	if err := json.Unmarshal(raw, &c); err != nil {
		return identity.RemoteUser{}, protoerr.Wrap(err, protoerr.CodeUnknownUser, "cached user record is malformed")
	}
	return identity.ImportRemoteUser(c.ID, c.VerifyCertPEM, c.Monitor, c.EncryptCertPEM)
}

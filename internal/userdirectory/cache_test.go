package userdirectory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/telekom-mms/go-it-crypto/internal/platform/metrics"
	"github.com/telekom-mms/go-it-crypto/internal/userdirectory"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
)

type CachingResolverSuite struct {
	suite.Suite
}

func TestCachingResolverSuite(t *testing.T) {
	suite.Run(t, new(CachingResolverSuite))
}

// Without a Redis client configured, the resolver must simply delegate to
// the upstream resolver rather than failing.
func (s *CachingResolverSuite) TestFallsBackToUpstreamWithoutRedis() {
	alice, err := identity.GenerateAuthenticatedUser("alice")
	s.Require().NoError(err)
	upstream := identity.StaticResolver(map[string]identity.RemoteUser{"alice": alice.Remote()})

	resolver := userdirectory.NewCachingResolver(upstream, nil, 0, metrics.New())

	found, err := resolver.Resolve(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("alice", found.ID)
}

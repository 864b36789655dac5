package cryptoservice_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/telekom-mms/go-it-crypto/internal/cryptoservice"
	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// InvariantSuite builds tokens by hand, independently choosing the signed
// SharedLog's recipient list and the JWE protected header's cleartext
// recipient list, to exercise spec.md §4.6 step 10's cross-layer checks
// (I4) the way a malicious or buggy sender could trigger them — something
// the public EncryptionService entry point cannot produce, since it always
// derives both lists from the same receiver set.
type InvariantSuite struct {
	suite.Suite

	monitor  identity.AuthenticatedUser
	owner    identity.AuthenticatedUser
	receiver identity.AuthenticatedUser
}

func TestInvariantSuite(t *testing.T) {
	suite.Run(t, new(InvariantSuite))
}

func (s *InvariantSuite) SetupTest() {
	var err error
	s.monitor, err = identity.GenerateAuthenticatedUser("monitor-1", identity.WithMonitor(true))
	s.Require().NoError(err)
	s.owner, err = identity.GenerateAuthenticatedUser("owner-1")
	s.Require().NoError(err)
	s.receiver, err = identity.GenerateAuthenticatedUser("receiver-1")
	s.Require().NoError(err)
}

func (s *InvariantSuite) resolver() identity.UserResolver {
	return identity.StaticResolver(map[string]identity.RemoteUser{
		s.monitor.ID:  s.monitor.Remote(),
		s.owner.ID:    s.owner.Remote(),
		s.receiver.ID: s.receiver.Remote(),
	})
}

type sharedHeaderClaims struct {
	ID         string   `json:"id"`
	Owner      string   `json:"owner"`
	Recipients []string `json:"recipients"`
}

// buildToken signs an AccessLog from s.monitor to s.owner, wraps it in a
// SharedLog whose signed recipient list is sharedLogRecipients, and
// encrypts it to wrapRecipients (identity.AuthenticatedUser, used for their
// encryption keys) while the protected header's cleartext recipient list
// is protectedRecipients, independently of sharedLogRecipients.
func (s *InvariantSuite) buildToken(sharedLogRecipients, protectedRecipients []string, wrapRecipients []identity.AuthenticatedUser) string {
	s.T().Helper()

	accessLog := model.AccessLog{
		Monitor:       s.monitor.ID,
		Owner:         s.owner.ID,
		Tool:          "hr-dashboard",
		Justification: "quarterly audit",
		Timestamp:     1735689600,
		AccessKind:    "direct",
		DataTypes:     []string{"email"},
		ID:            "11111111-1111-1111-1111-111111111111",
	}
	signedAccessLog, err := cryptoservice.SignAccessLog(s.monitor, accessLog)
	s.Require().NoError(err)

	sharedLogID := uuid.NewString()
	sharedLog := model.SharedLog{
		Log:        signedAccessLog.JWS(),
		Creator:    s.owner.ID,
		Owner:      s.owner.ID,
		Recipients: sharedLogRecipients,
		ID:         sharedLogID,
	}
	sharedLogJSON, err := sharedLog.ToJSON()
	s.Require().NoError(err)
	jwsSharedLog, err := jose.SignES256(s.owner.SigningKey, []byte(sharedLogJSON))
	s.Require().NoError(err)

	headerBytes, err := json.Marshal(sharedHeaderClaims{ID: sharedLogID, Owner: s.owner.ID, Recipients: protectedRecipients})
	s.Require().NoError(err)
	jwsSharedHeader, err := jose.SignES256(s.owner.SigningKey, headerBytes)
	s.Require().NoError(err)

	protected := jose.ProtectedHeader{
		Enc:          jose.EncAlgA256GCM,
		SharedHeader: jwsSharedHeader,
		Owner:        s.owner.ID,
		Recipients:   protectedRecipients,
	}
	protectedB64, err := jose.EncodeProtectedHeader(protected)
	s.Require().NoError(err)
	aad := jose.AAD(protectedB64)

	cek, err := jose.NewCEK()
	s.Require().NoError(err)

	payload, err := json.Marshal(jwsSharedLog)
	s.Require().NoError(err)
	iv, ciphertext, tag, err := jose.EncryptA256GCM(cek, payload, aad)
	s.Require().NoError(err)

	recipients := make([]jose.Recipient, len(wrapRecipients))
	for i, u := range wrapRecipients {
		r, err := jose.WrapCEKForRecipient(cek, u.DecryptionKey.PublicKey())
		s.Require().NoError(err)
		recipients[i] = r
	}

	env := jose.Envelope{
		Protected:  protectedB64,
		Recipients: recipients,
		IV:         jose.ToB64URL(iv),
		Ciphertext: jose.ToB64URL(ciphertext),
		Tag:        jose.ToB64URL(tag),
	}
	b, err := jose.MarshalEnvelope(env)
	s.Require().NoError(err)
	return string(b)
}

// P5: a receiver holding a valid wrapped key but absent from the signed
// SharedLog's recipient list must be rejected.
func (s *InvariantSuite) TestRecipientNotInSharedLog() {
	token := s.buildToken(
		[]string{s.owner.ID},
		[]string{s.owner.ID, s.receiver.ID},
		[]identity.AuthenticatedUser{s.owner, s.receiver},
	)

	_, err := cryptoservice.Decrypt(context.Background(), token, s.receiver, s.resolver())
	s.Require().Error(err)
	s.True(protoerr.HasCode(err, protoerr.CodeMalformedData))
}

// P7: permuting the protected header's recipient order relative to the
// signed SharedLog's recipient order is rejected even though the sets match.
func (s *InvariantSuite) TestRecipientOrderSensitive() {
	token := s.buildToken(
		[]string{s.owner.ID, s.receiver.ID},
		[]string{s.receiver.ID, s.owner.ID},
		[]identity.AuthenticatedUser{s.receiver, s.owner},
	)

	_, err := cryptoservice.Decrypt(context.Background(), token, s.receiver, s.resolver())
	s.Require().Error(err)
	s.True(protoerr.HasCode(err, protoerr.CodeMalformedData))
}

package model_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

type ModelSuite struct {
	suite.Suite
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) TestAccessLogJSONRoundTrip() {
	log := model.AccessLog{
		Monitor:       "monitor-1",
		Owner:         "owner-1",
		Tool:          "hr-dashboard",
		Justification: "quarterly audit",
		Timestamp:     1735689600,
		AccessKind:    "direct",
		DataTypes:     []string{"email", "address"},
		ID:            "11111111-1111-1111-1111-111111111111",
	}

	encoded, err := log.ToJSON()
	s.Require().NoError(err)

	decoded, err := model.AccessLogFromJSON(encoded)
	s.Require().NoError(err)
	s.Equal(log, decoded)

	fromBytes, err := model.AccessLogFromBytes([]byte(encoded))
	s.Require().NoError(err)
	s.Equal(log, fromBytes)
}

func (s *ModelSuite) TestAccessLogFromJSONMalformed() {
	_, err := model.AccessLogFromJSON("not json")
	s.Require().Error(err)
	s.True(protoerr.HasCode(err, protoerr.CodeMalformedAccessLog))
}

func (s *ModelSuite) TestSharedLogJSONRoundTrip() {
	shared := model.SharedLog{
		Log:        jose.FlattenedJWS{Payload: "p", Protected: "h", Signature: "s"},
		Creator:    "owner-1",
		Owner:      "owner-1",
		Recipients: []string{"receiver-1", "receiver-2"},
		ID:         "22222222-2222-2222-2222-222222222222",
	}

	encoded, err := shared.ToJSON()
	s.Require().NoError(err)

	decoded, err := model.SharedLogFromJSON(encoded)
	s.Require().NoError(err)
	s.Equal(shared, decoded)
}

func (s *ModelSuite) TestSharedLogFromJSONMalformed() {
	_, err := model.SharedLogFromJSON("{not json")
	s.Require().Error(err)
	s.True(protoerr.HasCode(err, protoerr.CodeMalformedSharedLog))
}

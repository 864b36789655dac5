package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	certstoremocks "github.com/telekom-mms/go-it-crypto/internal/certstore/mocks"
	"github.com/telekom-mms/go-it-crypto/internal/platform/metrics"
	userdirmocks "github.com/telekom-mms/go-it-crypto/internal/userdirectory/mocks"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

//go:generate mockgen -source=../../../pkg/identity/resolver.go -destination=../../certstore/mocks/mocks.go -package=mocks KeyStore
//go:generate mockgen -source=../../../pkg/identity/resolver.go -destination=../../userdirectory/mocks/mocks.go -package=mocks UserResolver

// testMetrics is shared across the suite's test methods: promauto registers
// against the default Prometheus registry, so constructing a fresh Metrics
// per test would panic on the second test with a duplicate-collector error.
var testMetrics = metrics.New()

type HandlerSuite struct {
	suite.Suite

	ctrl         *gomock.Controller
	mockKeys     *certstoremocks.MockKeyStore
	mockResolver *userdirmocks.MockUserResolver
	handler      *Handler
	router       http.Handler

	owner    identity.AuthenticatedUser
	monitor  identity.AuthenticatedUser
	receiver identity.AuthenticatedUser
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockKeys = certstoremocks.NewMockKeyStore(s.ctrl)
	s.mockResolver = userdirmocks.NewMockUserResolver(s.ctrl)

	var err error
	s.monitor, err = identity.GenerateAuthenticatedUser("monitor-1", identity.WithMonitor(true))
	s.Require().NoError(err)
	s.owner, err = identity.GenerateAuthenticatedUser("owner-1")
	s.Require().NoError(err)
	s.receiver, err = identity.GenerateAuthenticatedUser("receiver-1")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.handler = NewHandler(s.mockKeys, s.mockResolver, nil, testMetrics, logger)
	s.router = NewRouter(s.handler, logger)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) doRequest(method, path string, body any) (*http.Response, map[string]any) {
	s.T().Helper()
	var buf bytes.Buffer
	s.Require().NoError(json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	resp := rec.Result()
	var parsed map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func (s *HandlerSuite) TestHandleSignSuccess() {
	s.mockKeys.EXPECT().LoadAuthenticatedUser(gomock.Any(), "monitor-1").Return(s.monitor, nil)

	resp, body := s.doRequest(http.MethodPost, "/v1/logs/sign", signRequest{
		MonitorID:     "monitor-1",
		Owner:         "owner-1",
		Tool:          "hr-dashboard",
		Justification: "quarterly audit",
		Timestamp:     1735689600,
		AccessKind:    "direct",
		DataTypes:     []string{"email"},
		ID:            "11111111-1111-1111-1111-111111111111",
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(body["signedAccessLog"])
}

func (s *HandlerSuite) TestHandleSignUnknownMonitor() {
	s.mockKeys.EXPECT().LoadAuthenticatedUser(gomock.Any(), "ghost").
		Return(identity.AuthenticatedUser{}, protoerr.New(protoerr.CodeUnknownUser, "no such user"))

	resp, body := s.doRequest(http.MethodPost, "/v1/logs/sign", signRequest{
		MonitorID:     "ghost",
		Owner:         "owner-1",
		Tool:          "hr-dashboard",
		Justification: "quarterly audit",
		Timestamp:     1735689600,
		AccessKind:    "direct",
		DataTypes:     []string{"email"},
		ID:            "11111111-1111-1111-1111-111111111111",
	})

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(string(protoerr.CodeUnknownUser), body["error"])
}

func (s *HandlerSuite) TestHandleSignRejectsMissingFields() {
	resp, body := s.doRequest(http.MethodPost, "/v1/logs/sign", signRequest{MonitorID: "monitor-1"})

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("bad_request", body["error"])
}

// signViaHandler drives the real sign handler to produce a well-formed JWS
// fixture for share/unwrap tests, rather than hand-building one.
func (s *HandlerSuite) signViaHandler() string {
	s.T().Helper()
	s.mockKeys.EXPECT().LoadAuthenticatedUser(gomock.Any(), "monitor-1").Return(s.monitor, nil)

	resp, body := s.doRequest(http.MethodPost, "/v1/logs/sign", signRequest{
		MonitorID:     "monitor-1",
		Owner:         "owner-1",
		Tool:          "hr-dashboard",
		Justification: "quarterly audit",
		Timestamp:     1735689600,
		AccessKind:    "direct",
		DataTypes:     []string{"email"},
		ID:            "11111111-1111-1111-1111-111111111111",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return body["signedAccessLog"].(string)
}

func (s *HandlerSuite) TestHandleShareAndUnwrapRoundTrip() {
	jws := s.signViaHandler()

	s.mockKeys.EXPECT().LoadAuthenticatedUser(gomock.Any(), "owner-1").Return(s.owner, nil)
	s.mockResolver.EXPECT().Resolve(gomock.Any(), "receiver-1").Return(s.receiver.Remote(), nil)

	resp, body := s.doRequest(http.MethodPost, "/v1/logs/share", shareRequest{
		OwnerID:         "owner-1",
		SignedAccessLog: jws,
		RecipientIDs:    []string{"receiver-1"},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	token := body["token"].(string)
	s.NotEmpty(token)

	s.mockKeys.EXPECT().LoadAuthenticatedUser(gomock.Any(), "receiver-1").Return(s.receiver, nil)
	s.mockResolver.EXPECT().Resolve(gomock.Any(), "owner-1").Return(s.owner.Remote(), nil)
	s.mockResolver.EXPECT().Resolve(gomock.Any(), "monitor-1").Return(s.monitor.Remote(), nil).AnyTimes()

	resp, body = s.doRequest(http.MethodPost, "/v1/logs/unwrap", unwrapRequest{
		ReceiverID: "receiver-1",
		Token:      token,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("owner-1", body["owner"])
	s.Equal("monitor-1", body["monitor"])
}

func (s *HandlerSuite) TestHandleUnwrapUnknownReceiver() {
	s.mockKeys.EXPECT().LoadAuthenticatedUser(gomock.Any(), "ghost").
		Return(identity.AuthenticatedUser{}, protoerr.New(protoerr.CodeUnknownUser, "no such user"))

	resp, body := s.doRequest(http.MethodPost, "/v1/logs/unwrap", unwrapRequest{
		ReceiverID: "ghost",
		Token:      "not-a-real-token",
	})

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(string(protoerr.CodeUnknownUser), body["error"])
}

func (s *HandlerSuite) TestHealthz() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
}

// Package httptransport exposes the log-sharing protocol's three operations
// — sign, share, unwrap — as a thin HTTP gateway delegating to pkg/itcrypto.
// It holds no business logic of its own (SPEC_FULL.md §4).
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/telekom-mms/go-it-crypto/internal/audit"
	"github.com/telekom-mms/go-it-crypto/internal/jose"
	"github.com/telekom-mms/go-it-crypto/internal/platform/metrics"
	"github.com/telekom-mms/go-it-crypto/internal/platform/tracing"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
	"github.com/telekom-mms/go-it-crypto/pkg/itcrypto"
	"github.com/telekom-mms/go-it-crypto/pkg/model"
	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

// Handler is the thin HTTP layer over the sign/share/unwrap protocol
// operations. It delegates every decision to pkg/itcrypto so transport
// concerns stay isolated from protocol logic.
type Handler struct {
	keys     identity.KeyStore
	resolver identity.UserResolver
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	tracer   tracing.Tracer
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler builds a Handler. audit may be nil (no-op publishing).
func NewHandler(keys identity.KeyStore, resolver identity.UserResolver, auditPublisher *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		keys:     keys,
		resolver: resolver,
		audit:    auditPublisher,
		metrics:  m,
		tracer:   tracing.Noop(),
		logger:   logger,
		validate: validator.New(),
	}
}

// WithTracer overrides the handler's tracer, defaulting to a no-op.
func (h *Handler) WithTracer(t tracing.Tracer) *Handler {
	h.tracer = t
	return h
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if !h.decode(w, r, &req) {
		return
	}

	monitor, err := h.keys.LoadAuthenticatedUser(r.Context(), req.MonitorID)
	if err != nil {
		writeError(w, err)
		return
	}

	log := model.AccessLog{
		Monitor:       monitor.ID,
		Owner:         req.Owner,
		Tool:          req.Tool,
		Justification: req.Justification,
		Timestamp:     req.Timestamp,
		AccessKind:    req.AccessKind,
		DataTypes:     req.DataTypes,
		ID:            req.ID,
	}

	user := itcrypto.User{AuthenticatedUser: monitor}
	signed, err := user.SignAccessLog(log)
	if err != nil {
		writeError(w, err)
		return
	}

	jwsBytes, err := json.Marshal(signed.JWS())
	if err != nil {
		writeError(w, protoerr.Wrap(err, protoerr.CodeMalformedAccessLog, "failed to encode signed access log"))
		return
	}

	writeJSON(w, http.StatusOK, signResponse{SignedAccessLog: string(jwsBytes)})
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if !h.decode(w, r, &req) {
		return
	}

	owner, err := h.keys.LoadAuthenticatedUser(r.Context(), req.OwnerID)
	if err != nil {
		writeError(w, err)
		return
	}

	var jws jose.FlattenedJWS
	if err := json.Unmarshal([]byte(req.SignedAccessLog), &jws); err != nil {
		writeError(w, protoerr.Wrap(err, protoerr.CodeMalformedAccessLog, "signedAccessLog is not a valid JWS"))
		return
	}

	receivers, err := h.resolveRecipients(r.Context(), req.RecipientIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	_, span := h.tracer.Start(r.Context(), "share", tracing.String("owner", owner.ID), tracing.Int("recipients", len(receivers)))
	user := itcrypto.User{AuthenticatedUser: owner}
	start := time.Now()
	token, err := user.EncryptLog(identity.NewSignedLog(jws), receivers)
	span.End(err)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveShare(time.Since(start).Seconds())
	}
	h.audit.Emit(r.Context(), audit.Event{
		Timestamp:    time.Now(),
		Operation:    audit.OperationShareCompleted,
		ActorID:      owner.ID,
		OwnerID:      owner.ID,
		RecipientIDs: req.RecipientIDs,
	})

	writeJSON(w, http.StatusOK, shareResponse{Token: token})
}

func (h *Handler) handleUnwrap(w http.ResponseWriter, r *http.Request) {
	var req unwrapRequest
	if !h.decode(w, r, &req) {
		return
	}

	receiver, err := h.keys.LoadAuthenticatedUser(r.Context(), req.ReceiverID)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "unwrap", tracing.String("receiver", receiver.ID))
	user := itcrypto.User{AuthenticatedUser: receiver}
	start := time.Now()
	signed, err := user.DecryptLog(ctx, req.Token, h.resolver)
	span.End(err)
	if err != nil {
		code := protoerr.CodeOf(err)
		if h.metrics != nil {
			h.metrics.ObserveUnwrapFailure(string(code))
		}
		h.audit.Emit(r.Context(), audit.Event{
			Timestamp:   time.Now(),
			Operation:   audit.OperationUnwrapRejected,
			ActorID:     receiver.ID,
			FailureCode: string(code),
		})
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveUnwrap(time.Since(start).Seconds())
	}

	log, err := signed.Extract()
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit.Emit(r.Context(), audit.Event{
		Timestamp: time.Now(),
		Operation: audit.OperationUnwrapCompleted,
		ActorID:   receiver.ID,
		OwnerID:   log.Owner,
	})

	writeJSON(w, http.StatusOK, unwrapResponse{
		Monitor:       log.Monitor,
		Owner:         log.Owner,
		Tool:          log.Tool,
		Justification: log.Justification,
		Timestamp:     log.Timestamp,
		AccessKind:    log.AccessKind,
		DataTypes:     log.DataTypes,
		ID:            log.ID,
	})
}

// resolveRecipients resolves each recipient id concurrently, each goroutine
// writing to its own slot to avoid data races, cancelling the remaining
// lookups on the first failure.
func (h *Handler) resolveRecipients(ctx context.Context, ids []string) ([]identity.RemoteUser, error) {
	receivers := make([]identity.RemoteUser, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			remote, err := h.resolver.Resolve(ctx, id)
			if err != nil {
				return err
			}
			receivers[i] = remote
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return receivers, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSONError(w, http.StatusBadRequest, "bad_request", verrs.Error())
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "bad_request", "request failed validation")
		return false
	}
	return true
}

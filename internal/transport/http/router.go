package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/telekom-mms/go-it-crypto/internal/platform/middleware"
)

// NewRouter wires the sign/share/unwrap endpoints with the standard
// middleware stack.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Post("/v1/logs/sign", h.handleSign)
	r.Post("/v1/logs/share", h.handleShare)
	r.Post("/v1/logs/unwrap", h.handleUnwrap)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

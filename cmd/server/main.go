// Command server runs the demo HTTP gateway over the sign/share/unwrap
// protocol operations (SPEC_FULL.md §4). It wires storage/caching/audit
// adapters together; it owns no protocol logic of its own.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/telekom-mms/go-it-crypto/internal/audit"
	"github.com/telekom-mms/go-it-crypto/internal/certstore"
	"github.com/telekom-mms/go-it-crypto/internal/platform/config"
	"github.com/telekom-mms/go-it-crypto/internal/platform/kafka"
	"github.com/telekom-mms/go-it-crypto/internal/platform/logger"
	"github.com/telekom-mms/go-it-crypto/internal/platform/metrics"
	"github.com/telekom-mms/go-it-crypto/internal/platform/redis"
	"github.com/telekom-mms/go-it-crypto/internal/platform/tracing"
	httptransport "github.com/telekom-mms/go-it-crypto/internal/transport/http"
	"github.com/telekom-mms/go-it-crypto/internal/userdirectory"
	"github.com/telekom-mms/go-it-crypto/pkg/identity"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	log.Info("initializing go-it-crypto gateway", "addr", cfg.Addr)

	ctx := context.Background()

	keys, resolver := buildKeyStore(ctx, cfg, log)
	cachedResolver := userdirectory.NewCachingResolver(resolver, buildRedis(cfg, log), cfg.ResolverCacheTTL, m)

	auditPublisher := buildAuditPublisher(cfg, log)
	defer auditPublisher.Close()

	handler := httptransport.NewHandler(keys, cachedResolver, auditPublisher, m, log).WithTracer(tracing.NewOTel("go-it-crypto"))
	router := httptransport.NewRouter(handler, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// buildKeyStore wires a Postgres-backed certstore.Store when configured,
// falling back to an in-process identity.MemoryKeyStore for local
// development. Either one also serves as the UserResolver: both the
// gateway's own authenticated users and any remote user it has seen live in
// the same table/map.
func buildKeyStore(ctx context.Context, cfg config.Server, log *slog.Logger) (identity.KeyStore, identity.UserResolver) {
	if cfg.PostgresDSN != "" {
		store, err := certstore.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable, falling back to in-memory key store", "error", err)
		} else if err := store.Migrate(ctx); err != nil {
			log.Error("postgres migration failed, falling back to in-memory key store", "error", err)
		} else {
			return store, identity.UserResolverFunc(func(ctx context.Context, id string) (identity.RemoteUser, error) {
				user, err := store.LoadAuthenticatedUser(ctx, id)
				if err != nil {
					return identity.RemoteUser{}, err
				}
				return user.Remote(), nil
			})
		}
	}

	mem := identity.NewMemoryKeyStore()
	return mem, mem
}

func buildRedis(cfg config.Server, log *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client, err := redis.New(cfg.RedisAddr)
	if err != nil {
		log.Error("redis unavailable, resolver cache disabled", "error", err)
		return nil
	}
	return client
}

func buildAuditPublisher(cfg config.Server, log *slog.Logger) *audit.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}

	checker := kafka.NewHealthChecker(strings.Join(cfg.KafkaBrokers, ","))
	checkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := checker.Check(checkCtx); err != nil {
		log.Error("kafka unreachable, audit events disabled", "error", err)
		return nil
	}

	producer, err := kafka.New(cfg.KafkaBrokers, log)
	if err != nil {
		log.Error("kafka unavailable, audit events disabled", "error", err)
		return nil
	}
	return audit.NewPublisher(producer, cfg.KafkaTopic, log)
}

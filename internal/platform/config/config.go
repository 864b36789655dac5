// Package config holds environment-driven configuration for the demo
// sharing gateway and its supporting adapters, so cmd/server stays lean.
package config

import (
	"os"
	"time"
)

// Server captures the demo HTTP gateway's configuration. Empty
// RedisAddr/PostgresDSN/KafkaBrokers disable the corresponding adapter
// rather than failing startup, mirroring internal/platform/redis.New and
// internal/certstore.New's "absent configuration is not an error"
// convention.
type Server struct {
	Addr             string
	RedisAddr        string
	ResolverCacheTTL time.Duration
	PostgresDSN      string
	KafkaBrokers     []string
	KafkaTopic       string
}

// FromEnv builds a Server config from environment variables, falling back
// to development-friendly defaults.
func FromEnv() Server {
	s := Server{
		Addr:             envOr("ITCRYPTO_ADDR", ":8080"),
		RedisAddr:        envOr("ITCRYPTO_REDIS_ADDR", ""),
		ResolverCacheTTL: envDuration("ITCRYPTO_RESOLVER_CACHE_TTL", 5*time.Minute),
		PostgresDSN:      envOr("ITCRYPTO_POSTGRES_DSN", ""),
		KafkaTopic:       envOr("ITCRYPTO_AUDIT_TOPIC", "itcrypto.audit"),
	}
	if broker := envOr("ITCRYPTO_KAFKA_BROKER", ""); broker != "" {
		s.KafkaBrokers = []string{broker}
	}
	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

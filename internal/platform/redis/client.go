// Package redis wraps go-redis with the health checking and pool metrics
// internal/userdirectory's caching UserResolver decorator depends on.
package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	poolHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itcrypto_redis_pool_hits_total",
		Help: "Number of times a connection was found in the pool.",
	})
	poolMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itcrypto_redis_pool_misses_total",
		Help: "Number of times a connection was not found in the pool.",
	})
	poolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "itcrypto_redis_pool_total_conns",
		Help: "Number of total connections in the pool.",
	})
	poolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "itcrypto_redis_pool_idle_conns",
		Help: "Number of idle connections in the pool.",
	})
)

// Client wraps the go-redis client with health checking and pool metrics.
type Client struct {
	*redis.Client
	lastStats *redis.PoolStats
}

// New dials a Redis instance at addr. Returns nil if addr is empty.
func New(addr string) (*Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks whether the Redis connection is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}

// RecordPoolStats updates Prometheus gauges/counters with the current pool
// statistics. Call periodically from a background goroutine.
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()
	poolTotalConns.Set(float64(stats.TotalConns))
	poolIdleConns.Set(float64(stats.IdleConns))

	if c.lastStats != nil {
		if stats.Hits > c.lastStats.Hits {
			poolHits.Add(float64(stats.Hits - c.lastStats.Hits))
		}
		if stats.Misses > c.lastStats.Misses {
			poolMisses.Add(float64(stats.Misses - c.lastStats.Misses))
		}
	} else {
		poolHits.Add(float64(stats.Hits))
		poolMisses.Add(float64(stats.Misses))
	}
	c.lastStats = stats
}

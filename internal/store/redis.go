package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the client backing the notification queue. Blocking pops on
// the queue supply their own timeouts, so ReadTimeout stays short here.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects with short timeouts; readiness is checked lazily via
// Healthy rather than at construction.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy reports redis connectivity; nil-safe so the health endpoint can
// run without a configured instance.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

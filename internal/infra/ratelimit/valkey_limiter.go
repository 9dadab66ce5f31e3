// Package ratelimit shares request budgets across replicas through Valkey.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyLimiter counts requests per key in fixed windows.
type ValkeyLimiter struct {
	client valkey.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewValkeyLimiter allows limit requests per key in every window.
func NewValkeyLimiter(client valkey.Client, prefix string, limit int, window time.Duration) *ValkeyLimiter {
	if prefix == "" {
		prefix = "book-rental"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &ValkeyLimiter{client: client, prefix: prefix, limit: int64(limit), window: window, now: time.Now}
}

// Allow increments the key's counter for the current window and reports whether it is within budget.
func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := l.windowKey(key, l.now())
	count, err := l.client.Do(ctx, l.client.B().Incr().Key(windowKey).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// Keys expire two windows after first use.
		ttl := int64((2 * l.window).Seconds())
		if err := l.client.Do(ctx, l.client.B().Expire().Key(windowKey).Seconds(ttl).Build()).Error(); err != nil {
			return false, err
		}
	}
	return count <= l.limit, nil
}

func (l *ValkeyLimiter) windowKey(key string, now time.Time) string {
	bucket := now.UnixNano() / int64(l.window)
	return l.prefix + ":ratelimit:" + key + ":" + strconv.FormatInt(bucket, 10)
}

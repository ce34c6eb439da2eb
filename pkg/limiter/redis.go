package limiter

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder ships limiter telemetry to Redis as a best-effort side
// channel. Counters accumulate as fields of one hash, observations as
// sum/count field pairs of another, so several processes can aggregate into
// the same keys. Admission decisions never depend on it: every write runs
// under a short timeout and failures are dropped.
type RedisRecorder struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// RedisOption configures a RedisRecorder.
type RedisOption func(*RedisRecorder)

// WithRedisPrefix sets the key prefix (default "crptgate:stats:").
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisRecorder) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithRedisTTL sets the expiry refreshed on every write (default 24h).
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *RedisRecorder) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRedisTimeout sets the per-write context timeout (default 2s).
func WithRedisTimeout(d time.Duration) RedisOption {
	return func(r *RedisRecorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRedisRecorder constructs a RedisRecorder and verifies the server is
// reachable with a ping.
func NewRedisRecorder(client *redis.Client, opts ...RedisOption) (*RedisRecorder, error) {
	r := &RedisRecorder{
		client:  client,
		prefix:  "crptgate:stats:",
		ttl:     24 * time.Hour,
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RedisRecorder) Add(name string, value float64, tags map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	key := r.prefix + "counters"
	pipe := r.client.Pipeline()
	pipe.HIncrByFloat(ctx, key, statField(name, tags), value)
	pipe.Expire(ctx, key, r.ttl)
	_, _ = pipe.Exec(ctx)
}

func (r *RedisRecorder) Observe(name string, value float64, tags map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	key := r.prefix + "timings"
	field := statField(name, tags)
	pipe := r.client.Pipeline()
	pipe.HIncrByFloat(ctx, key, field+":sum", value)
	pipe.HIncrByFloat(ctx, key, field+":count", 1)
	pipe.Expire(ctx, key, r.ttl)
	_, _ = pipe.Exec(ctx)
}

// statField flattens a metric name plus tags into one deterministic hash
// field, e.g. "gate.admitted|op=try".
func statField(name string, tags map[string]string) string {
	if len(tags) == 0 {
		return name
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(tags[k])
	}
	return b.String()
}

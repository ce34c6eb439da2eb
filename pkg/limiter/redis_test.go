package limiter

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func hashField(t *testing.T, mr *miniredis.Miniredis, key, field string) float64 {
	t.Helper()

	raw := mr.HGet(key, field)
	if raw == "" {
		t.Fatalf("expected field %q on %q to exist", field, key)
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return val
}

func TestRedisRecorder_Add(t *testing.T) {
	client, mr := newTestRedis(t)

	rec, err := NewRedisRecorder(client, WithRedisPrefix("t:"), WithRedisTTL(time.Hour))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.Add("gate.admitted", 1, nil)
	rec.Add("gate.admitted", 1, nil)
	rec.Add("gate.admitted", 1, map[string]string{"op": "try"})

	if got := hashField(t, mr, "t:counters", "gate.admitted"); got != 2 {
		t.Errorf("expected plain counter 2, got %v", got)
	}
	if got := hashField(t, mr, "t:counters", "gate.admitted|op=try"); got != 1 {
		t.Errorf("expected tagged counter 1, got %v", got)
	}
	if ttl := mr.TTL("t:counters"); ttl <= 0 {
		t.Errorf("expected a TTL on the counters hash, got %v", ttl)
	}
}

func TestRedisRecorder_Observe(t *testing.T) {
	client, mr := newTestRedis(t)

	rec, err := NewRedisRecorder(client, WithRedisPrefix("t:"))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.Observe("gate.wait_seconds", 0.25, nil)
	rec.Observe("gate.wait_seconds", 0.75, nil)

	if got := hashField(t, mr, "t:timings", "gate.wait_seconds:sum"); got != 1 {
		t.Errorf("expected sum 1, got %v", got)
	}
	if got := hashField(t, mr, "t:timings", "gate.wait_seconds:count"); got != 2 {
		t.Errorf("expected count 2, got %v", got)
	}
}

func TestNewRedisRecorder_UnreachableServer(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	if _, err := NewRedisRecorder(client, WithRedisTimeout(200*time.Millisecond)); err == nil {
		t.Fatal("expected a ping error for an unreachable server")
	}
}

// Telemetry is best-effort: once the server goes away, writes are dropped
// without panicking or blocking past the timeout.
func TestRedisRecorder_WriteFailuresDropped(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rec, err := NewRedisRecorder(client, WithRedisTimeout(200*time.Millisecond))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	mr.Close()

	done := make(chan struct{})
	go func() {
		rec.Add("gate.admitted", 1, nil)
		rec.Observe("gate.wait_seconds", 0.1, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("recorder blocked on a dead server")
	}
}

func TestWindowLimiter_RedisRecorder(t *testing.T) {
	client, mr := newTestRedis(t)

	rec, err := NewRedisRecorder(client, WithRedisPrefix("t:"))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	l, err := NewWindowLimiter(time.Minute, 2, WithRecorder(rec))
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if got := hashField(t, mr, "t:counters", "gate.admitted"); got != 1 {
		t.Errorf("expected 1 admission counted, got %v", got)
	}
}

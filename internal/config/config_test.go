package config

import (
	"testing"
	"time"
)

func TestLoadDemo_Defaults(t *testing.T) {
	cfg, err := LoadDemo()
	if err != nil {
		t.Fatalf("load demo config: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8085/api/v3" {
		t.Errorf("unexpected default base url %q", cfg.BaseURL)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("unexpected default rate limit %d", cfg.RateLimit)
	}
	if cfg.RateWindow != time.Second {
		t.Errorf("unexpected default rate window %v", cfg.RateWindow)
	}
	if cfg.Requests != 12 {
		t.Errorf("unexpected default request count %d", cfg.Requests)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.RedisAddr)
	}
}

func TestLoadDemo_Overrides(t *testing.T) {
	t.Setenv("CRPT_BASE_URL", "https://ismp.crpt.ru/api/v3")
	t.Setenv("CRPT_RATE_LIMIT", "20")
	t.Setenv("CRPT_RATE_WINDOW", "250ms")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadDemo()
	if err != nil {
		t.Fatalf("load demo config: %v", err)
	}

	if cfg.BaseURL != "https://ismp.crpt.ru/api/v3" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.RateLimit != 20 {
		t.Errorf("unexpected rate limit %d", cfg.RateLimit)
	}
	if cfg.RateWindow != 250*time.Millisecond {
		t.Errorf("unexpected rate window %v", cfg.RateWindow)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected redis addr %q", cfg.RedisAddr)
	}
}

func TestLoadDemo_InvalidValues(t *testing.T) {
	t.Setenv("CRPT_RATE_LIMIT", "lots")

	if _, err := LoadDemo(); err == nil {
		t.Error("expected an error for a non-numeric rate limit")
	}

	t.Setenv("CRPT_RATE_LIMIT", "5")
	t.Setenv("CRPT_RATE_WINDOW", "soon")

	if _, err := LoadDemo(); err == nil {
		t.Error("expected an error for an unparsable window")
	}
}

func TestLoadStub(t *testing.T) {
	cfg, err := LoadStub()
	if err != nil {
		t.Fatalf("load stub config: %v", err)
	}
	if cfg.Addr != ":8085" {
		t.Errorf("unexpected default addr %q", cfg.Addr)
	}
	if cfg.RPS != 5 || cfg.Burst != 10 {
		t.Errorf("unexpected default throttle %v rps, burst %d", cfg.RPS, cfg.Burst)
	}

	t.Setenv("STUB_RPS", "2.5")
	cfg, err = LoadStub()
	if err != nil {
		t.Fatalf("load stub config: %v", err)
	}
	if cfg.RPS != 2.5 {
		t.Errorf("unexpected rps %v", cfg.RPS)
	}

	t.Setenv("STUB_BURST", "many")
	if _, err := LoadStub(); err == nil {
		t.Error("expected an error for a non-numeric burst")
	}
}

// Command crpt-demo fires a burst of create-document calls through the
// window limiter so the pacing is visible in the logs and on /metrics.
// Point CRPT_BASE_URL at a running crpt-stub (the default) or at the real
// service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"crptgate/internal/config"
	"crptgate/internal/logging"
	"crptgate/pkg/crpt"
	"crptgate/pkg/limiter"
)

func main() {
	cfg, err := config.LoadDemo()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gate, err := limiter.NewWindowLimiter(cfg.RateWindow, cfg.RateLimit,
		limiter.WithRecorder(buildRecorder(cfg, logger)),
	)
	if err != nil {
		logger.Fatal("failed to build limiter", zap.Error(err))
	}

	client, err := crpt.NewClient(gate,
		crpt.WithBaseURL(cfg.BaseURL),
		crpt.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("failed to build client", zap.Error(err))
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Warn("metrics endpoint stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting demo",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("rate_limit", cfg.RateLimit),
		zap.Duration("rate_window", cfg.RateWindow),
		zap.Int("requests", cfg.Requests),
	)

	start := time.Now()

	var wg sync.WaitGroup
	for i := range cfg.Requests {
		wg.Add(1)
		go func() {
			defer wg.Done()

			doc := crpt.Document{
				DocID:          fmt.Sprintf("demo-%d", i),
				DocType:        crpt.DocTypeLPIntroduceGoods,
				OwnerInn:       "1234567890",
				ParticipantInn: "1234567890",
				ProducerInn:    "1234567890",
				ProductionDate: "2020-01-23",
				Products: []crpt.Product{{
					TnvedCode: "6403",
					UitCode:   fmt.Sprintf("uit-%d", i),
				}},
			}

			begin := time.Now()
			res := client.CreateDocument(ctx, doc, cfg.Signature)
			if res.Success {
				logger.Info("document created",
					zap.Int("n", i),
					zap.Int("status", res.StatusCode),
					zap.Duration("elapsed", time.Since(begin)),
				)
				return
			}
			logger.Warn("document not created",
				zap.Int("n", i),
				zap.Int("status", res.StatusCode),
				zap.String("message", res.Message),
				zap.Duration("elapsed", time.Since(begin)),
				zap.Error(res.Err),
			)
		}()
	}

	wg.Wait()
	logger.Info("demo complete",
		zap.Int("requests", cfg.Requests),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// buildRecorder always wires Prometheus and adds Redis stats when REDIS_ADDR
// is set. A Redis that is down only costs the extra sink.
func buildRecorder(cfg config.Demo, logger *zap.Logger) limiter.MetricsRecorder {
	prom := limiter.NewPrometheusRecorder(prometheus.DefaultRegisterer, "crptgate")

	if cfg.RedisAddr == "" {
		return prom
	}

	stats, err := limiter.NewRedisRecorder(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	if err != nil {
		logger.Warn("redis stats disabled", zap.Error(err))
		return prom
	}
	return limiter.MultiRecorder(prom, stats)
}

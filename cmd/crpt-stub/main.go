// Command crpt-stub runs a local stand-in for the CRPT document API. It
// accepts the same create-document request the real service does, throttles
// callers per Signature header, and answers with a generated document id.
// Useful for exercising crpt-demo without touching the production endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"crptgate/internal/config"
	"crptgate/internal/logging"
	"crptgate/pkg/crpt"
)

// signatureThrottle keeps one token bucket per Signature header so distinct
// callers get independent budgets. Entries live for the process lifetime,
// which is fine for a local stub.
type signatureThrottle struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	callers map[string]*rate.Limiter
}

func newSignatureThrottle(rps float64, burst int) *signatureThrottle {
	return &signatureThrottle{
		rps:     rate.Limit(rps),
		burst:   burst,
		callers: make(map[string]*rate.Limiter),
	}
}

func (t *signatureThrottle) limiterFor(signature string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if lim, ok := t.callers[signature]; ok {
		return lim
	}
	lim := rate.NewLimiter(t.rps, t.burst)
	t.callers[signature] = lim
	return lim
}

func createDocumentHandler(logger *zap.Logger, throttle *signatureThrottle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get("Signature")
		if signature == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing Signature header")
			return
		}

		res := throttle.limiterFor(signature).Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", fmt.Sprintf("%.2f", delay.Seconds()))
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		var doc crpt.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSONError(w, http.StatusBadRequest, "malformed document payload")
			return
		}

		id := uuid.NewString()
		logger.Info("document accepted",
			zap.String("doc_id", doc.DocID),
			zap.String("doc_type", doc.DocType),
			zap.String("value", id),
		)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"value": id})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error_message": message})
}

func main() {
	cfg, err := config.LoadStub()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	throttle := newSignatureThrottle(cfg.RPS, cfg.Burst)

	r := chi.NewRouter()
	r.Post("/api/v3/lk/documents/create", createDocumentHandler(logger, throttle))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	logger.Info("stub listening",
		zap.String("addr", cfg.Addr),
		zap.Float64("rps", cfg.RPS),
		zap.Int("burst", cfg.Burst),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

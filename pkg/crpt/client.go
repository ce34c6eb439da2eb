package crpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production root of the CRPT API.
const DefaultBaseURL = "https://ismp.crpt.ru/api/v3"

const (
	createDocumentPath = "/lk/documents/create"
	signatureHeader    = "Signature"
	defaultTimeout     = 30 * time.Second
)

// ErrNilGate is returned by NewClient when no admission gate is supplied.
var ErrNilGate = errors.New("crpt: admission gate must not be nil")

// Gate admits one API call per successful Acquire. *limiter.WindowLimiter
// satisfies it; tests may substitute anything else.
type Gate interface {
	Acquire(ctx context.Context) error
}

// Client is a CRPT API client whose outbound calls pass through an admission
// gate. It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
	gate       Gate
	logger     *zap.Logger
}

// NewClient constructs a Client around the given gate.
func NewClient(gate Gate, opts ...Option) (*Client, error) {
	if gate == nil {
		return nil, ErrNilGate
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		gate:       gate,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if _, err := url.ParseRequestURI(c.baseURL); err != nil {
		return nil, fmt.Errorf("crpt: invalid base url %q: %w", c.baseURL, err)
	}
	return c, nil
}

// CreateDocument submits one document for goods introduced into turnover,
// signed with the detached signature the API expects in its Signature
// header.
//
// The call blocks in the gate until admitted. One admission buys exactly one
// HTTP attempt: there is no retry, and a consumed slot is never returned to
// the window, whatever the downstream outcome. Every outcome, including
// cancellation while waiting, is reported in the Result.
func (c *Client) CreateDocument(ctx context.Context, doc Document, signature string) Result {
	if err := c.gate.Acquire(ctx); err != nil {
		c.logger.Warn("document create interrupted before admission", zap.Error(err))
		return failureResult("request interrupted", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("document rejected by encoder", zap.Error(err))
		return failureResult("JSON serialization error", err)
	}

	endpoint := c.baseURL + createDocumentPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return failureResult("IO error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("document create failed", zap.String("url", endpoint), zap.Error(err))
		return failureResult("IO error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("response read failed", zap.Int("status", resp.StatusCode), zap.Error(err))
		return failureResult("IO error", err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("document created", zap.Int("status", resp.StatusCode))
		return successResult(resp.StatusCode, body)
	}

	c.logger.Warn("document create rejected", zap.Int("status", resp.StatusCode))
	return rejectionResult(resp.StatusCode, body)
}

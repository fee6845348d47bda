package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBatchSize = 64
	defaultRPS       = 5
	defaultTimeout   = 15 * time.Second
	maxErrorBody     = 512
)

// HTTPOption configures an HTTP provider.
type HTTPOption func(*HTTP)

// WithModel sets the model name sent with each request.
func WithModel(model string) HTTPOption {
	return func(h *HTTP) { h.model = model }
}

// WithAPIKey sets a bearer token.
func WithAPIKey(key string) HTTPOption {
	return func(h *HTTP) { h.apiKey = key }
}

// WithBatchSize bounds the number of inputs per request.
func WithBatchSize(n int) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.batchSize = n
		}
	}
}

// WithRateLimit bounds requests per second.
func WithRateLimit(rps float64) HTTPOption {
	return func(h *HTTP) {
		if rps > 0 {
			h.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// HTTP calls an OpenAI-compatible POST {baseURL}/embeddings endpoint.
type HTTP struct {
	endpoint  string
	model     string
	apiKey    string
	batchSize int
	client    *http.Client
	limiter   *rate.Limiter
}

// NewHTTP creates an HTTP provider for baseURL, e.g. http://localhost:11434/v1.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		endpoint:  strings.TrimRight(baseURL, "/") + "/embeddings",
		batchSize: defaultBatchSize,
		client:    &http.Client{Timeout: defaultTimeout},
		limiter:   rate.NewLimiter(rate.Limit(defaultRPS), 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type embeddingRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Name implements Provider.
func (h *HTTP) Name() string { return "http" }

// Available implements Provider.
func (h *HTTP) Available() bool { return h.endpoint != "/embeddings" }

// Encode implements Provider. Inputs are sent in batches; every batch must
// come back complete and with the same dimension.
func (h *HTTP) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += h.batchSize {
		end := min(start+h.batchSize, len(texts))
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		vecs, err := h.post(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	if len(out) > 0 {
		dim := len(out[0])
		for i, v := range out {
			if len(v) != dim || dim == 0 {
				return nil, fmt.Errorf("%w: vector %d has %d dims, want %d", ErrBadResponse, i, len(v), dim)
			}
		}
	}
	return out, nil
}

func (h *HTTP) post(ctx context.Context, batch []string) ([][]float64, error) {
	body, err := json.Marshal(embeddingRequest{Model: h.model, Input: batch})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", h.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrBadResponse, err)
	}
	if len(decoded.Data) != len(batch) {
		return nil, fmt.Errorf("%w: %d vectors for %d inputs", ErrBadResponse, len(decoded.Data), len(batch))
	}
	vecs := make([][]float64, len(batch))
	for _, d := range decoded.Data {
		if d.Index < 0 || d.Index >= len(batch) || vecs[d.Index] != nil {
			return nil, fmt.Errorf("%w: bad index %d", ErrBadResponse, d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

// Package ollama implements the generative client for a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/domain"
	"github.com/threadsage/threadsage/internal/metrics"
)

// Config holds Ollama client settings.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client calls the /api/generate endpoint.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates an Ollama generative client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	Stream      bool    `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a prompt and returns the model's response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: c.temperature,
		NumPredict:  c.maxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", "transport_error").Inc()
		return "", fmt.Errorf("ollama generate request: %w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", "api_error").Inc()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn("ollama non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", msg),
		)
		return "", fmt.Errorf("ollama status %s: %w", resp.Status, domain.ErrGenerationFailed)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", "parse_error").Inc()
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	metrics.GenerationRequestsTotal.WithLabelValues("ollama", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues("ollama").Observe(time.Since(start).Seconds())
	return strings.TrimSpace(out.Response), nil
}

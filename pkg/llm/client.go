package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Apology is the fixed reply used when the language model cannot be
// reached or answers with garbage. The turn still completes and the
// caller synthesizes this string instead of surfacing a failure.
const Apology = "Sorry, I am having trouble thinking right now. Please try again in a moment."

const (
	defaultMaxTokens   = 512
	defaultTemperature = 0.2
)

// Client calls an Ollama-compatible generate endpoint.
type Client struct {
	upstreamURL string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a client for the generate API at upstreamURL
// (base URL, e.g. "http://localhost:11434").
func NewClient(upstreamURL, model string, logger *zap.Logger) *Client {
	return &Client{
		upstreamURL: upstreamURL,
		model:       model,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		httpClient: &http.Client{
			// Local models can take a while on first load.
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Ask sends the prompt and returns the model's reply. It never returns an
// error: transport failures, non-2xx answers and unparseable bodies all
// degrade to the fixed Apology so the voice turn can still complete.
func (c *Client) Ask(ctx context.Context, prompt string) string {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("language model unavailable, falling back to apology", zap.Error(err))
		return Apology
	}

	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(GenerateRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.upstreamURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("forwarding prompt to upstream",
		zap.String("url", url),
		zap.Int("prompt_len", len(prompt)),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned %d: %s", httpResp.StatusCode, string(body))
	}

	reply := DecodeReply(body)
	if reply.Kind == ReplyRaw {
		c.logger.Warn("unknown generate response shape, using raw payload",
			zap.Int("body_size", len(body)),
		)
	}

	return reply.Text, nil
}

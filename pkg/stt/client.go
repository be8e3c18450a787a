// Package stt uploads canonical WAV clips to the transcription engine and
// joins the recognized segments into a single utterance.
package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Segment is one recognized span of speech. Only the text is used by the
// pipeline; timings are kept for logging.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type transcribeResponse struct {
	Segments []Segment `json:"segments"`
}

// Client talks to an HTTP transcription engine that accepts a multipart
// WAV upload and answers with JSON segments.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a transcription client for the given endpoint URL.
func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		logger: logger,
	}
}

// Transcribe uploads the WAV at wavPath and returns the recognized text:
// all non-empty segments trimmed and joined by single spaces, in
// chronological order. An empty result is not an error here; deciding
// what empty speech means is the caller's business.
func (c *Client) Transcribe(ctx context.Context, wavPath string) (string, error) {
	body, contentType, err := multipartFile(wavPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription engine returned %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded transcribeResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	text := JoinSegments(decoded.Segments)
	c.logger.Debug("transcription complete",
		zap.Int("segments", len(decoded.Segments)),
		zap.Int("text_len", len(text)),
	)

	return text, nil
}

// JoinSegments concatenates non-empty segment texts, trimmed and joined
// by single spaces, preserving segment order.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " ")
}

func multipartFile(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open wav for upload: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy wav into form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/thesrcielos/CodeClash/internal/config"
	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("completion response has no content")

const maxResponseBytes = 1 << 20

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	URL         string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
	logger      *zap.Logger
}

func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		URL:         cfg.URL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the content of
// the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.Model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    c.Temperature,
		MaxTokens:      c.MaxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("completion request", zap.Int("prompt_length", len(prompt)))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}
	c.logger.Debug("completion response",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(raw)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion request returned status %d: %s", resp.StatusCode, truncate(string(raw), 500))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return decoded.Choices[0].Message.Content, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

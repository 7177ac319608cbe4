package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quizforge/trivia-api/internal/config"
)

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultModel          = "gpt-4o-mini"
	defaultRequestTimeout = 30 * time.Second
)

// ErrGenerationFailed indicates the external text generation call failed.
// Transport errors, timeouts, and non-200 responses all map to it.
var ErrGenerationFailed = errors.New("question generation failed")

// Client invokes an OpenAI-compatible chat completion service.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewClient constructs a completion client from config, applying defaults.
func NewClient(cfg config.AIConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-user-message completion request and returns the
// raw response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, errEncode := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if errEncode != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrGenerationFailed, errEncode)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, errBuild := http.NewRequestWithContext(requestCtx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if errBuild != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrGenerationFailed, errBuild)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, errDo := c.client.Do(req)
	if errDo != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, errDo)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var decoded chatResponse
	if errDecode := json.NewDecoder(resp.Body).Decode(&decoded); errDecode != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, errDecode)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return decoded.Choices[0].Message.Content, nil
}

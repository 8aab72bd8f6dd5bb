package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
)

const (
	openAIBaseURL    = "https://api.openai.com/v1/chat/completions"
	openAIModel      = "gpt-4"
	openAIMaxTokens  = 200
	openAITemp       = 0.7
	openAIMaxRetries = 5
	openAIInitDelay  = 2 * time.Second
)

// ErrNoAPIKey means OPENAI_API_KEY is not configured.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewOpenAIClient creates a client for the Chat Completions API.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
		model:   openAIModel,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewOpenAIClientFromEnv reads OPENAI_API_KEY and an optional
// OPENAI_API_BASE_URL override.
func NewOpenAIClientFromEnv() *OpenAIClient {
	c := NewOpenAIClient(env.GetEnv("OPENAI_API_KEY", ""))
	if base := env.GetEnv("OPENAI_API_BASE_URL", ""); base != "" {
		c.baseURL = base
	}
	if model := env.GetEnv("OPENAI_MODEL", ""); model != "" {
		c.model = model
	}
	return c
}

// IsConfigured reports whether an API key is present.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// ChatCompletion sends a system+user prompt pair and returns the first
// choice's text. Rate limits and 5xx responses are retried with exponential
// backoff; other API errors fail immediately.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   openAIMaxTokens,
		Temperature: openAITemp,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < openAIMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * openAIInitDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, string(respBody))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var apiResp chatResponse
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(apiResp.Choices) == 0 {
			return "", fmt.Errorf("empty response choices")
		}
		return apiResp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", openAIMaxRetries, lastErr)
}

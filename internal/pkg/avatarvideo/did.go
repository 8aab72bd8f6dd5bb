package avatarvideo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
)

const didBaseURL = "https://api.d-id.com"

// Talk statuses reported by the vendor.
const (
	TalkStatusCreated  = "created"
	TalkStatusStarted  = "started"
	TalkStatusDone     = "done"
	TalkStatusError    = "error"
	TalkStatusRejected = "rejected"
)

// ErrNotConfigured means DID_API_KEY is not set.
var ErrNotConfigured = errors.New("avatar video provider is not configured")

// DIDClient calls the D-ID talking-avatar API.
type DIDClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewDIDClient creates a client with the given API key.
func NewDIDClient(apiKey string) *DIDClient {
	return &DIDClient{
		apiKey:  apiKey,
		baseURL: didBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewDIDClientFromEnv reads DID_API_KEY and an optional DID_API_BASE_URL
// override.
func NewDIDClientFromEnv() *DIDClient {
	c := NewDIDClient(env.GetEnv("DID_API_KEY", ""))
	if base := env.GetEnv("DID_API_BASE_URL", ""); base != "" {
		c.baseURL = base
	}
	return c
}

// IsConfigured reports whether an API key is present.
func (c *DIDClient) IsConfigured() bool {
	return c.apiKey != ""
}

type createTalkRequest struct {
	SourceURL string     `json:"source_url"`
	Script    talkScript `json:"script"`
	Config    talkConfig `json:"config"`
}

type talkScript struct {
	Type     string `json:"type"`
	AudioURL string `json:"audio_url"`
}

type talkConfig struct {
	Fluent       bool    `json:"fluent"`
	PadAudio     float64 `json:"pad_audio"`
	ResultFormat string  `json:"result_format"`
	Stitch       bool    `json:"stitch"`
}

type createTalkResponse struct {
	ID string `json:"id"`
}

// Talk is the vendor-side render job state.
type Talk struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
	Error     struct {
		Kind        string `json:"kind"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateTalk submits an image+audio pair for rendering and returns the
// vendor talk id.
func (c *DIDClient) CreateTalk(ctx context.Context, imageURL, audioURL string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(createTalkRequest{
		SourceURL: imageURL,
		Script:    talkScript{Type: "audio", AudioURL: audioURL},
		Config: talkConfig{
			Fluent:       true,
			PadAudio:     0.0,
			ResultFormat: "mp4",
			Stitch:       true,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/talks", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create talk request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("D-ID API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed createTalkResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.ID == "" {
		return "", errors.New("response missing talk id")
	}
	return parsed.ID, nil
}

// GetTalk fetches the current state of a render job.
func (c *DIDClient) GetTalk(ctx context.Context, talkID string) (*Talk, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/talks/"+talkID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get talk request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("D-ID API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var talk Talk
	if err := json.Unmarshal(respBody, &talk); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &talk, nil
}

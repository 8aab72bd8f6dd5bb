package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	ttsModelID        = "eleven_multilingual_v2"
)

// ErrNotConfigured means ELEVENLABS_API_KEY is not set.
var ErrNotConfigured = errors.New("speech provider is not configured")

// ElevenLabsClient calls the ElevenLabs voice cloning and text-to-speech API.
type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewElevenLabsClient creates a client with the given API key.
func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// NewElevenLabsClientFromEnv reads ELEVENLABS_API_KEY and an optional
// ELEVENLABS_API_BASE_URL override.
func NewElevenLabsClientFromEnv() *ElevenLabsClient {
	c := NewElevenLabsClient(env.GetEnv("ELEVENLABS_API_KEY", ""))
	if base := env.GetEnv("ELEVENLABS_API_BASE_URL", ""); base != "" {
		c.baseURL = base
	}
	return c
}

// IsConfigured reports whether an API key is present.
func (c *ElevenLabsClient) IsConfigured() bool {
	return c.apiKey != ""
}

// VoiceSample is one uploaded audio recording used for cloning.
type VoiceSample struct {
	FileName string
	Data     io.Reader
}

type addVoiceResponse struct {
	VoiceID string `json:"voice_id"`
}

// CloneVoice uploads audio samples and returns the vendor voice id.
func (c *ElevenLabsClient) CloneVoice(ctx context.Context, name string, samples []VoiceSample) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if len(samples) == 0 {
		return "", errors.New("at least one audio sample is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("name", name); err != nil {
		return "", err
	}
	if err := writer.WriteField("description", fmt.Sprintf("Voice clone for %s - Legacy.ai", name)); err != nil {
		return "", err
	}
	for _, sample := range samples {
		part, err := writer.CreateFormFile("files", sample.FileName)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(part, sample.Data); err != nil {
			return "", fmt.Errorf("copy sample %s: %w", sample.FileName, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/voices/add", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("voice clone request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ElevenLabs API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed addVoiceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.VoiceID == "" {
		return "", errors.New("response missing voice_id")
	}
	return parsed.VoiceID, nil
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// GenerateSpeech synthesizes text with the given cloned voice and returns
// the MP3 audio bytes.
func (c *ElevenLabsClient) GenerateSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if text == "" || voiceID == "" {
		return nil, errors.New("text and voice id are required")
	}

	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: ttsModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.75,
			SimilarityBoost: 0.75,
			Style:           0.5,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/text-to-speech/"+voiceID, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs API error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

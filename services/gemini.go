package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Models used by the four chat modes.
const (
	ModelFlash     = "gemini-2.0-flash"
	ModelReasoning = "gemini-2.5-flash-preview-05-20"
	ModelImageGen  = "gemini-2.0-flash-preview-image-generation"
)

// GeminiService handles communication with the Gemini API
type GeminiService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiService creates a new Gemini service
func NewGeminiService(apiKey string) *GeminiService {
	return NewGeminiServiceWithBaseURL(apiKey, defaultBaseURL)
}

// NewGeminiServiceWithBaseURL creates a Gemini service pointed at a
// non-default endpoint, e.g. a local test server.
func NewGeminiServiceWithBaseURL(apiKey, baseURL string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Blob carries inline binary data, base64-encoded on the wire.
type Blob struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// Part is one segment of a request or response content. Exactly one of
// Text and InlineData is set; Thought marks internal reasoning segments
// in responses.
type Part struct {
	Text       string `json:"text,omitempty"`
	Thought    bool   `json:"thought,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Content is an ordered list of parts with an optional role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// ThinkingConfig asks the model to return its reasoning as thought parts.
type ThinkingConfig struct {
	IncludeThoughts bool `json:"includeThoughts"`
}

// GenerationConfig holds the per-request generation options we use.
type GenerationConfig struct {
	ThinkingConfig     *ThinkingConfig `json:"thinkingConfig,omitempty"`
	ResponseModalities []string        `json:"responseModalities,omitempty"`
}

type generateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// GenerateResult is the parsed response of a generateContent call.
type GenerateResult struct {
	Candidates []Candidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// TextPart builds a text-only part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds a part carrying base64 binary data.
func InlinePart(mimeType, data string) Part {
	return Part{InlineData: &Blob{MimeType: mimeType, Data: data}}
}

// GenerateContent sends the given parts to a model and returns the parsed
// result. The caller decides which model and config to use per mode.
func (s *GeminiService) GenerateContent(ctx context.Context, model string, parts []Part, cfg *GenerationConfig) (*GenerateResult, error) {
	reqBody := generateRequest{
		Contents:         []Content{{Parts: parts}},
		GenerationConfig: cfg,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result GenerateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("gemini API error [%s]: %s", result.Error.Status, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	return &result, nil
}

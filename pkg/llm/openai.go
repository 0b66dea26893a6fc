package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4"
	DefaultTimeout = 60 * time.Second

	defaultMaxTokens   = 1000
	defaultTemperature = 0.3
)

type OpenAI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

// Option customizes an OpenAI client.
type Option func(*OpenAI)

// WithBaseURL points the client at another OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *OpenAI) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *OpenAI) {
		if d > 0 {
			o.client.Timeout = d
		}
	}
}

func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	return NewOpenAIWithModel(apiKey, DefaultModel, opts...)
}

func NewOpenAIWithModel(apiKey, model string, opts ...Option) *OpenAI {
	o := &OpenAI{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		model:   model,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

func (o *OpenAI) Chat(ctx context.Context, req ChatRequest) (string, error) {
	body := chatCompletionRequest{
		Model:       o.model,
		Messages:    req.Messages,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		body.Temperature = *req.Temperature
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteAnalysisError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	// OpenAI response structure
	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &openaiResp); err != nil {
		return "", fmt.Errorf("decode OpenAI response: %w", err)
	}
	if openaiResp.Error.Message != "" {
		return "", fmt.Errorf("OpenAI API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return openaiResp.Choices[0].Message.Content, nil
}

// GetModel returns the model being used by this OpenAI client
func (o *OpenAI) GetModel() string {
	return o.model
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-analyzer/internal/domain"
)

const (
	defaultCompletionBaseURL = "https://api.openai.com"
	defaultCompletionModel   = "text-davinci-003"
	defaultMaxTokens         = 1024
	defaultTemperature       = 0.7
)

// CompletionConfig configures the completions-endpoint client. Zero values
// fall back to the defaults above.
type CompletionConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// CompletionClient calls an OpenAI-style completions endpoint and extracts
// the first returned choice.
type CompletionClient struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	http        *http.Client
}

// NewCompletionClient builds a client for the given endpoint.
func NewCompletionClient(cfg CompletionConfig) *CompletionClient {
	model := cfg.Model
	if model == "" {
		model = defaultCompletionModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCompletionBaseURL
	}

	return &CompletionClient{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		http:        &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	N           int      `json:"n"`
	Stop        []string `json:"stop"`
	Temperature float64  `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Generate sends the prompt and returns the trimmed first completion. An
// empty or missing choice yields "" with a nil error.
func (c *CompletionClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   c.maxTokens,
		N:           1,
		Stop:        nil,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/completions", body)
	if err != nil {
		return "", &domain.NetworkError{Op: "completion request", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.NetworkError{Op: "reading completion response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ExternalServiceError{
			Service: "completion service",
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(respBytes)),
		}
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", &domain.ExternalServiceError{
			Service: "completion service",
			Status:  resp.StatusCode,
			Message: "non-json response: " + err.Error(),
		}
	}

	if len(parsed.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(parsed.Choices[0].Text), nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *CompletionClient) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		// exponential backoff before retrying
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

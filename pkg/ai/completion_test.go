package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-analyzer/internal/domain"
)

func TestFeedbackPrompt(t *testing.T) {
	prompt := FeedbackPrompt("https://x/y.pdf")

	if !strings.Contains(prompt, "https://x/y.pdf") {
		t.Fatalf("prompt does not contain the document reference: %q", prompt)
	}
	if !strings.HasPrefix(prompt, "Analyze the resume at the following URL:") {
		t.Fatalf("unexpected prompt prefix: %q", prompt)
	}
}

func TestCompletionClientGenerate(t *testing.T) {
	var gotReq completionRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]string{{"text": " Good resume. "}},
		})
	}))
	defer srv.Close()

	c := NewCompletionClient(CompletionConfig{BaseURL: srv.URL, APIKey: "sk-test"})

	out, err := c.Generate(context.Background(), "review this")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out != "Good resume." {
		t.Fatalf("expected trimmed completion, got %q", out)
	}

	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotReq.Model != defaultCompletionModel {
		t.Fatalf("unexpected model: %q", gotReq.Model)
	}
	if gotReq.MaxTokens != defaultMaxTokens || gotReq.N != 1 {
		t.Fatalf("unexpected request parameters: %+v", gotReq)
	}
	if gotReq.Temperature != defaultTemperature {
		t.Fatalf("unexpected temperature: %v", gotReq.Temperature)
	}
	if gotReq.Prompt != "review this" {
		t.Fatalf("unexpected prompt: %q", gotReq.Prompt)
	}
}

func TestCompletionClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	c := NewCompletionClient(CompletionConfig{BaseURL: srv.URL})

	out, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("empty choices must not be an error, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty result, got %q", out)
	}
}

func TestCompletionClientEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]string{{"text": ""}},
		})
	}))
	defer srv.Close()

	c := NewCompletionClient(CompletionConfig{BaseURL: srv.URL})

	out, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("empty text must not be an error, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty result, got %q", out)
	}
}

func TestCompletionClientDefaultBaseURL(t *testing.T) {
	c := NewCompletionClient(CompletionConfig{})

	if c.baseURL != defaultCompletionBaseURL {
		t.Fatalf("an unconfigured client must target the default endpoint, got %q", c.baseURL)
	}
}

func TestCompletionClientNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := NewCompletionClient(CompletionConfig{BaseURL: srv.URL})

	_, err := c.Generate(context.Background(), "prompt")
	var extErr *domain.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError for a non-json body, got %v", err)
	}
	if extErr.Status != http.StatusOK {
		t.Fatalf("unexpected status: %d", extErr.Status)
	}
}

func TestCompletionClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewCompletionClient(CompletionConfig{BaseURL: srv.URL})

	_, err := c.Generate(context.Background(), "prompt")
	var extErr *domain.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if extErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", extErr.Status)
	}
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/legalens/internal/model"
)

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Choices: []openai.ChatCompletionChoice{
			{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
	}
}

func TestOpenAIProvider_Analyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer "+testOpenAIKey {
			t.Errorf("Unexpected Authorization header %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Content != systemPrompt {
			t.Errorf("Expected system and user messages, got %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(chatResponse(sampleReply))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{
		BaseURL:     server.URL,
		Models:      []string{"gpt-4o-mini"},
		Timeout:     5,
		Temperature: 0.7,
	})

	report, err := provider.Analyze(context.Background(), "Terms of Service", testOpenAIKey)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Grades[model.CategoryOverall] != model.GradeC {
		t.Errorf("Expected overall C, got %s", report.Grades[model.CategoryOverall])
	}
	if len(report.KeyPoints) != 2 {
		t.Errorf("Expected 2 key points, got %d", len(report.KeyPoints))
	}
}

func TestOpenAIProvider_Analyze_FallsBackToNextModel(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		calls.Add(1)

		if req.Model == "gpt-4o-mini" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse(sampleReply))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{
		BaseURL: server.URL,
		Models:  []string{"gpt-4o-mini", "gpt-3.5-turbo-0125"},
		Timeout: 5,
	})

	report, err := provider.Analyze(context.Background(), "Terms", testOpenAIKey)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Summary == "" {
		t.Error("Expected summary from second model")
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 calls, got %d", calls.Load())
	}
}

func TestOpenAIProvider_Analyze_AllModelsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{
		BaseURL: server.URL,
		Models:  []string{"gpt-4o-mini", "gpt-3.5-turbo-0125"},
		Timeout: 5,
	})

	_, err := provider.Analyze(context.Background(), "Terms", testOpenAIKey)
	var unavailable *ProviderUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Expected ProviderUnavailableError, got %v", err)
	}
	if unavailable.Provider != model.ProviderOpenAI {
		t.Errorf("Unexpected provider %s", unavailable.Provider)
	}
	if got := unavailable.Models(); len(got) != 2 || got[0] != "gpt-4o-mini" || got[1] != "gpt-3.5-turbo-0125" {
		t.Errorf("Unexpected attempted models %v", got)
	}
}

func TestOpenAIProvider_Analyze_UnparseableReplyTriesNextModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model == "first" {
			_ = json.NewEncoder(w).Encode(chatResponse("Sorry, I cannot help with that."))
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse(sampleReply))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{BaseURL: server.URL, Models: []string{"first", "second"}, Timeout: 5})

	if _, err := provider.Analyze(context.Background(), "Terms", testOpenAIKey); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
}

func TestOpenAIProvider_Analyze_RejectsMalformedKey(t *testing.T) {
	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{BaseURL: server.URL, Models: []string{"gpt-4o-mini"}, Timeout: 5})

	_, err := provider.Analyze(context.Background(), "Terms", "not-a-key")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("Expected ErrInvalidCredential, got %v", err)
	}
	if called.Load() {
		t.Error("Expected no request with a malformed key")
	}
}

func TestValidateOpenAIKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{testOpenAIKey, nil},
		{"sk-proj-" + testOpenAIKey[3:], nil},
		{"", ErrMissingCredential},
		{"sk-short", ErrInvalidCredential},
		{"pk-" + testOpenAIKey[3:], ErrInvalidCredential},
	}

	for _, tt := range tests {
		err := ValidateOpenAIKey(tt.key)
		if tt.want == nil && err != nil {
			t.Errorf("ValidateOpenAIKey(%q) = %v, want nil", tt.key, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("ValidateOpenAIKey(%q) = %v, want %v", tt.key, err, tt.want)
		}
	}
}

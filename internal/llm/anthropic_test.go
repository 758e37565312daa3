package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/legalens/internal/model"
)

func anthropicReply(text string) anthropicResponse {
	return anthropicResponse{
		ID:   "msg_123",
		Type: "message",
		Role: "assistant",
		Content: []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{
			{Type: "text", Text: text},
		},
		Model: "claude-3-haiku-20240307",
	}
}

func TestAnthropicProvider_Analyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.MaxTokens != 4000 {
			t.Errorf("Expected max_tokens 4000, got %d", req.MaxTokens)
		}
		if req.System != systemPrompt {
			t.Errorf("Unexpected system prompt %q", req.System)
		}

		_ = json.NewEncoder(w).Encode(anthropicReply("```json\n" + sampleReply + "\n```"))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(Config{
		BaseURL: server.URL,
		Models:  []string{"claude-3-haiku-20240307"},
		Timeout: 5,
	})

	report, err := provider.Analyze(context.Background(), "Privacy Policy", "test-key")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Complexity.Score == nil || *report.Complexity.Score != 72 {
		t.Errorf("Unexpected complexity score %v", report.Complexity.Score)
	}
	if report.Grades[model.CategoryPrivacy] != model.GradeD {
		t.Errorf("Expected privacy D, got %s", report.Grades[model.CategoryPrivacy])
	}
}

func TestAnthropicProvider_Analyze_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "Internal Server Error"}}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(Config{BaseURL: server.URL, Models: []string{"claude-3-haiku-20240307"}, Timeout: 5})

	_, err := provider.Analyze(context.Background(), "Terms", "test-key")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Internal Server Error") {
		t.Errorf("Expected error message to contain 'Internal Server Error', got %v", err)
	}
	if !IsUnavailable(err) {
		t.Errorf("Expected ProviderUnavailableError, got %T", err)
	}
}

func TestAnthropicProvider_Analyze_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(Config{BaseURL: server.URL, Models: []string{"claude-3-haiku-20240307"}, Timeout: 5})

	if _, err := provider.Analyze(context.Background(), "Terms", "test-key"); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestAnthropicProvider_Analyze_MissingCredential(t *testing.T) {
	provider := NewAnthropicProvider(Config{Models: []string{"claude-3-haiku-20240307"}})

	_, err := provider.Analyze(context.Background(), "Terms", "")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Expected ErrMissingCredential, got %v", err)
	}
}

func TestAnthropicProvider_Analyze_ConcatenatesTextBlocks(t *testing.T) {
	half := len(sampleReply) / 2
	first, _ := json.Marshal(sampleReply[:half])
	second, _ := json.Marshal(sampleReply[half:])

	var models []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		models = append(models, req.Model)

		w.Header().Set("Content-Type", "application/json")
		if req.Model == "claude-tools-only" {
			_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-tools-only",
				"content":[{"type":"tool_use","id":"toolu_1","name":"lookup","input":{"q":"terms"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"msg_2","type":"message","role":"assistant","model":"claude-3-haiku-20240307",
			"content":[{"type":"text","text":` + string(first) + `},
				{"type":"tool_use","id":"toolu_2","name":"lookup","input":{}},
				{"type":"text","text":` + string(second) + `}]}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(Config{
		BaseURL: server.URL,
		Models:  []string{"claude-tools-only", "claude-3-haiku-20240307"},
		Timeout: 5,
	})

	report, err := provider.Analyze(context.Background(), "Terms", "test-key")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(models) != 2 || models[1] != "claude-3-haiku-20240307" {
		t.Errorf("Expected fallback to the second model, got %v", models)
	}
	if report.Summary != "You give the service a licence to your content." {
		t.Errorf("Unexpected summary %q", report.Summary)
	}
	if len(report.KeyPoints) != 2 {
		t.Errorf("Expected 2 key points, got %d", len(report.KeyPoints))
	}
}

func TestAnthropicProvider_Analyze_NoTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant",
			"content":[{"type":"tool_use","id":"toolu_1","name":"lookup","input":{}}]}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(Config{BaseURL: server.URL, Models: []string{"claude-3-haiku-20240307"}, Timeout: 5})

	_, err := provider.Analyze(context.Background(), "Terms", "test-key")
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("Expected ErrEmptyContent, got %v", err)
	}
	if !IsUnavailable(err) {
		t.Errorf("Expected ProviderUnavailableError, got %T", err)
	}
}

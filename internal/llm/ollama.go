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

	"github.com/ppiankov/legalens/internal/model"
)

// OllamaProvider implements the Provider interface for Ollama local models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) *OllamaProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// Local models can be slow on long documents
		httpClient: newHTTPClient(config, 120*time.Second),
		config:     config,
	}
}

// ID returns the provider id
func (p *OllamaProvider) ID() model.ProviderID {
	return model.ProviderOllama
}

// Models returns the candidate models
func (p *OllamaProvider) Models() []string {
	return p.config.Models
}

// BuildPrompt renders the Ollama flavored prompt
func (p *OllamaProvider) BuildPrompt(document string) string {
	return BuildPrompt(document, model.ProviderOllama, p.config.Style)
}

// Analyze runs the document through a local Ollama server. Ollama needs
// no credential, so the argument is ignored.
func (p *OllamaProvider) Analyze(ctx context.Context, document, _ string) (*model.AnalysisReport, error) {
	prompt := p.BuildPrompt(document)

	return tryModels(ctx, p.ID(), p.config.Models, func(ctx context.Context, modelName string) (string, error) {
		apiReq := ollamaRequest{
			Model:  modelName,
			Prompt: prompt,
			Stream: false,
			System: systemPrompt,
			Format: "json",
			Options: ollamaOptions{
				Temperature: p.config.Temperature,
				NumPredict:  p.config.MaxTokens,
			},
		}

		resp, err := p.makeRequest(ctx, apiReq)
		if err != nil {
			return "", fmt.Errorf("ollama API error: %w", err)
		}
		return resp.Response, nil
	})
}

// makeRequest makes an HTTP request to the Ollama API
func (p *OllamaProvider) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}

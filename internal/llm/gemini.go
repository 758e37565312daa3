package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/legalens/internal/model"
)

// GeminiProvider implements the Provider interface for Google Gemini
// through the v1 generateContent endpoint
type GeminiProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) *GeminiProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	return &GeminiProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(config, 60*time.Second),
		config:     config,
	}
}

// ID returns the provider id
func (p *GeminiProvider) ID() model.ProviderID {
	return model.ProviderGemini
}

// Models returns the candidate models
func (p *GeminiProvider) Models() []string {
	return p.config.Models
}

// BuildPrompt renders the Gemini flavored prompt
func (p *GeminiProvider) BuildPrompt(document string) string {
	return BuildPrompt(document, model.ProviderGemini, p.config.Style)
}

// Analyze runs the document through generateContent, one model at a time
func (p *GeminiProvider) Analyze(ctx context.Context, document, credential string) (*model.AnalysisReport, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, &ProviderUnavailableError{Provider: p.ID(), Err: ErrMissingCredential}
	}

	apiReq := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: p.BuildPrompt(document)}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.config.Temperature,
			MaxOutputTokens: p.config.MaxTokens,
		},
	}

	return tryModels(ctx, p.ID(), p.config.Models, func(ctx context.Context, modelName string) (string, error) {
		resp, err := p.makeRequest(ctx, modelName, credential, apiReq)
		if err != nil {
			return "", fmt.Errorf("Gemini API error: %w", err)
		}
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", ErrIncompleteResponse
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	})
}

// makeRequest posts one generateContent call; the key travels as a query parameter
func (p *GeminiProvider) makeRequest(ctx context.Context, modelName, key string, apiReq geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(modelName), url.QueryEscape(key))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		// The URL carries the key; keep it out of logs and reports.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s - %s", httpResp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}

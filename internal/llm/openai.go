package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/legalens/internal/model"
)

// OpenAIProvider implements the Provider interface for OpenAI chat models
type OpenAIProvider struct {
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) *OpenAIProvider {
	return &OpenAIProvider{config: config}
}

// ID returns the provider id
func (p *OpenAIProvider) ID() model.ProviderID {
	return model.ProviderOpenAI
}

// Models returns the candidate models
func (p *OpenAIProvider) Models() []string {
	return p.config.Models
}

// BuildPrompt renders the OpenAI flavored prompt
func (p *OpenAIProvider) BuildPrompt(document string) string {
	return BuildPrompt(document, model.ProviderOpenAI, p.config.Style)
}

// Analyze runs the document through the Chat Completions API. The key is
// checked before any request is made.
func (p *OpenAIProvider) Analyze(ctx context.Context, document, credential string) (*model.AnalysisReport, error) {
	if err := ValidateOpenAIKey(credential); err != nil {
		return nil, &ProviderUnavailableError{Provider: p.ID(), Err: err}
	}

	clientConfig := openai.DefaultConfig(credential)
	if p.config.BaseURL != "" {
		clientConfig.BaseURL = p.config.BaseURL
	}
	clientConfig.HTTPClient = newHTTPClient(p.config, 60*time.Second)
	client := openai.NewClientWithConfig(clientConfig)

	prompt := p.BuildPrompt(document)

	return tryModels(ctx, p.ID(), p.config.Models, func(ctx context.Context, modelName string) (string, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: modelName,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   p.config.MaxTokens,
			Temperature: float32(p.config.Temperature),
		})
		if err != nil {
			return "", fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrIncompleteResponse
		}
		return resp.Choices[0].Message.Content, nil
	})
}

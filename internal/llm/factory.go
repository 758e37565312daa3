package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/legalens/internal/model"
)

// ErrNoProviders means no backend is both enabled and credentialed
var ErrNoProviders = errors.New("no LLM provider configured: set OPENAI_API_KEY, GEMINI_API_KEY or ANTHROPIC_API_KEY, or enable ollama")

// Backend pairs a provider with the credential it is called with
type Backend struct {
	Provider   Provider
	Credential string
}

// NewProvider creates a provider by id
func NewProvider(id model.ProviderID, config Config) (Provider, error) {
	switch model.ProviderID(strings.ToLower(string(id))) {
	case model.ProviderOpenAI:
		return NewOpenAIProvider(config), nil
	case model.ProviderGemini:
		return NewGeminiProvider(config), nil
	case model.ProviderAnthropic, "claude":
		return NewAnthropicProvider(config), nil
	case model.ProviderOllama:
		return NewOllamaProvider(config), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, gemini, anthropic, ollama)", id)
	}
}

// BackendsFromConfig builds the enabled backends in dispatch order. Hosted
// providers without a credential are skipped. only restricts the set when
// non-empty.
func BackendsFromConfig(cfg *model.Config, only []string) ([]Backend, error) {
	entries := []struct {
		id    model.ProviderID
		pc    model.ProviderConfig
		local bool
	}{
		{model.ProviderOpenAI, cfg.Providers.OpenAI, false},
		{model.ProviderGemini, cfg.Providers.Gemini, false},
		{model.ProviderAnthropic, cfg.Providers.Anthropic, false},
		{model.ProviderOllama, cfg.Providers.Ollama, true},
	}

	var backends []Backend
	for _, e := range entries {
		if len(only) > 0 && !containsFold(only, string(e.id)) {
			continue
		}
		if !e.pc.Enabled {
			continue
		}
		if !e.local && strings.TrimSpace(e.pc.APIKey) == "" {
			log.Debug().Str("provider", string(e.id)).Msg("no credential, skipping provider")
			continue
		}

		provider, err := NewProvider(e.id, ConfigFromModel(e.pc, cfg))
		if err != nil {
			return nil, err
		}
		backends = append(backends, Backend{Provider: provider, Credential: e.pc.APIKey})
	}

	if len(backends) == 0 {
		return nil, ErrNoProviders
	}
	return backends, nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}

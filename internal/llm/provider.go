package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/legalens/internal/model"
	"github.com/ppiankov/legalens/internal/util"
)

// Provider is one LLM backend that turns a legal document into an analysis report
type Provider interface {
	// ID identifies the backend in fused reports and failure lists
	ID() model.ProviderID

	// Models returns the candidate models in the order they are tried
	Models() []string

	// BuildPrompt renders the backend-specific analysis prompt
	BuildPrompt(document string) string

	// Analyze sends the document to the first model that answers with a
	// parseable report. Failing every model yields *ProviderUnavailableError.
	Analyze(ctx context.Context, document, credential string) (*model.AnalysisReport, error)
}

// Config holds the settings shared by every provider
type Config struct {
	Models      []string
	BaseURL     string
	Timeout     int // seconds
	MaxTokens   int
	Temperature float64
	Style       Style

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel builds a provider config from the loaded configuration
func ConfigFromModel(pc model.ProviderConfig, cfg *model.Config) Config {
	return Config{
		Models:      pc.Models,
		BaseURL:     pc.BaseURL,
		Timeout:     pc.Timeout,
		MaxTokens:   pc.MaxTokens,
		Temperature: pc.Temperature,
		Style: Style{
			Language: cfg.Output.LanguageStyle,
			Length:   cfg.Output.SummaryLength,
		},
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}
}

func newHTTPClient(config Config, fallback time.Duration) *http.Client {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = fallback
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}
}

// completeFunc sends the prompt to one model and returns the raw reply text
type completeFunc func(ctx context.Context, modelName string) (string, error)

// tryModels walks the candidate models in order and returns the first
// reply that parses into a report. Transport, API and parse failures all
// move on to the next model.
func tryModels(ctx context.Context, id model.ProviderID, models []string, complete completeFunc) (*model.AnalysisReport, error) {
	if len(models) == 0 {
		return nil, &ProviderUnavailableError{Provider: id, Err: ErrNoModels}
	}

	var attempts []ModelAttempt
	for _, m := range models {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, ModelAttempt{Model: m, Err: err})
			break
		}

		report, err := attempt(ctx, m, complete)
		if err == nil {
			log.Debug().Str("provider", string(id)).Str("model", m).Msg("model answered")
			return report, nil
		}

		log.Debug().Err(err).Str("provider", string(id)).Str("model", m).Msg("model failed, trying next")
		attempts = append(attempts, ModelAttempt{Model: m, Err: err})
	}

	return nil, &ProviderUnavailableError{Provider: id, Attempts: attempts}
}

func attempt(ctx context.Context, modelName string, complete completeFunc) (*model.AnalysisReport, error) {
	raw, err := complete(ctx, modelName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyContent
	}
	return ParseResponse(raw, modelName)
}

// IsUnavailable reports whether err means a provider produced no report
func IsUnavailable(err error) bool {
	var target *ProviderUnavailableError
	return errors.As(err, &target)
}

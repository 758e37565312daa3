// Package fusion runs every configured LLM provider over a document and
// merges their reports into one.
package fusion

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/legalens/internal/llm"
	"github.com/ppiankov/legalens/internal/model"
)

// Engine fans a document out to its backends and fuses the results
type Engine struct {
	backends []llm.Backend
	exclude  map[model.ProviderID]bool
}

// Option configures an Engine
type Option func(*Engine)

// WithExclude drops the named providers' reports unless nothing else succeeded
func WithExclude(ids ...string) Option {
	return func(e *Engine) {
		for _, id := range ids {
			id = strings.ToLower(strings.TrimSpace(id))
			if id != "" {
				e.exclude[model.ProviderID(id)] = true
			}
		}
	}
}

// NewEngine creates an engine over backends, dispatched in the given order
func NewEngine(backends []llm.Backend, opts ...Option) *Engine {
	e := &Engine{
		backends: backends,
		exclude:  make(map[model.ProviderID]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fingerprint identifies the providers, their model fallback lists and the
// exclusion set. Backend order does not matter; model order does.
func (e *Engine) Fingerprint() string {
	backends := make([]string, 0, len(e.backends))
	for _, b := range e.backends {
		backends = append(backends, string(b.Provider.ID())+"="+strings.Join(b.Provider.Models(), "|"))
	}
	slices.Sort(backends)

	excluded := make([]string, 0, len(e.exclude))
	for id := range e.exclude {
		excluded = append(excluded, string(id))
	}
	slices.Sort(excluded)

	return strings.Join(backends, ",") + ";exclude=" + strings.Join(excluded, ",")
}

type outcome struct {
	report *model.AnalysisReport
	err    error
}

// Analyze sends text to every backend concurrently and waits for all of
// them. Individual provider failures are recorded on the result; only a
// run where no provider succeeds returns *AllProvidersFailedError.
func (e *Engine) Analyze(ctx context.Context, text string) (*model.FusedReport, error) {
	if len(e.backends) == 0 {
		return nil, llm.ErrNoProviders
	}

	// Each goroutine owns one slot, so merge order is dispatch order
	// regardless of which provider answers first.
	outcomes := make([]outcome, len(e.backends))

	var g errgroup.Group
	for i, b := range e.backends {
		g.Go(func() error {
			report, err := b.Provider.Analyze(ctx, text, b.Credential)
			outcomes[i] = outcome{report: report, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		contributions []Contribution
		failures      []model.ProviderFailure
	)
	for i, o := range outcomes {
		provider := e.backends[i].Provider
		id := provider.ID()
		if o.err != nil || o.report == nil {
			reason := "no report"
			if o.err != nil {
				reason = o.err.Error()
			}
			log.Warn().Err(o.err).Str("provider", string(id)).Strs("models", provider.Models()).Msg("provider failed")
			failures = append(failures, model.ProviderFailure{Provider: id, Reason: reason})
			continue
		}
		log.Debug().Str("provider", string(id)).Msg("provider succeeded")
		contributions = append(contributions, Contribution{Provider: id, Report: o.report})
	}

	if len(contributions) == 0 {
		return nil, &AllProvidersFailedError{Failures: failures}
	}

	fused := Merge(e.applyExclusion(contributions))
	fused.Failures = failures

	log.Debug().
		Int("succeeded", len(contributions)).
		Int("failed", len(failures)).
		Interface("contributors", fused.ModelContributions).
		Msg("fusion complete")

	return fused, nil
}

// applyExclusion removes excluded providers unless that would leave nothing
func (e *Engine) applyExclusion(contributions []Contribution) []Contribution {
	if len(e.exclude) == 0 {
		return contributions
	}

	kept := make([]Contribution, 0, len(contributions))
	for _, c := range contributions {
		if !e.exclude[c.Provider] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		log.Debug().Msg("exclusion would leave no reports, ignoring it for this run")
		return contributions
	}
	return kept
}

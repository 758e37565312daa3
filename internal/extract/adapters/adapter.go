// Package adapters holds site-specific extraction cascades for pages whose
// markup defeats the generic chain.
package adapters

import (
	"github.com/ppiankov/legalens/internal/extract"
	"github.com/ppiankov/legalens/internal/model"
)

// Adapter is a site-specific cascade
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter applies to the URL
	CanHandle(rawURL string) bool

	// Strategies returns the ordered steps to try before the generic chain
	Strategies() []extract.Strategy
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates a registry with the built-in adapters. More specific
// adapters are registered first.
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewAppleITunesAdapter())
	registry.Register(NewAppleLegalAdapter())
	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the first adapter that handles the URL
func (r *Registry) FindAdapter(rawURL string) (Adapter, bool) {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(rawURL) {
			return adapter, true
		}
	}
	return nil, false
}

// Resolve implements extract.SiteResolver
func (r *Registry) Resolve(rawURL string) (extract.SiteChain, bool) {
	adapter, ok := r.FindAdapter(rawURL)
	if !ok {
		return nil, false
	}
	return adapter, true
}

func step(label string, fn func(p *extract.Page, threshold int) string) extract.Strategy {
	return extract.StepFunc{Kind: model.StrategySite, Label: label, Fn: fn}
}

// joined concatenates blocks when their combined length clears the threshold
func joined(blocks []string, threshold int) string {
	text := extract.JoinBlocks(blocks)
	if len([]rune(text)) <= threshold {
		return ""
	}
	return text
}

// firstOver returns the first selector's text that clears the threshold
func firstOver(p *extract.Page, threshold int, selectors ...string) string {
	for _, sel := range selectors {
		if text := p.First(sel); len([]rune(text)) > threshold {
			return text
		}
	}
	return ""
}

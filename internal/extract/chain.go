// Package extract locates the legal document inside an HTML page by running
// an ordered cascade of extraction strategies over an immutable snapshot.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/legalens/internal/classify"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/rs/zerolog/log"
)

// DefaultThreshold is the substantial content threshold in characters
const DefaultThreshold = 500

// ErrExtractionEmpty means there is nothing to analyze on the page. It is
// not a failure: callers report "no document detected".
var ErrExtractionEmpty = errors.New("no legal document detected")

// SiteChain is a site-specific cascade tried before the generic one
type SiteChain interface {
	Name() string
	Strategies() []Strategy
}

// SiteResolver finds the site-specific cascade for a URL
type SiteResolver interface {
	Resolve(rawURL string) (SiteChain, bool)
}

// Chain runs the extraction strategies in priority order
type Chain struct {
	classifier *classify.Classifier
	sites      SiteResolver
	strategies []Strategy
	threshold  int
}

// Option configures a Chain
type Option func(*Chain)

// WithThreshold overrides the substantial content threshold
func WithThreshold(n int) Option {
	return func(c *Chain) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithSites enables site-specific cascades
func WithSites(r SiteResolver) Option {
	return func(c *Chain) { c.sites = r }
}

// NewChain creates a chain with the default generic strategies
func NewChain(opts ...Option) *Chain {
	c := &Chain{
		classifier: classify.New(),
		strategies: DefaultStrategies(),
		threshold:  DefaultThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultStrategies returns selector, attribute, traversal, aggressive and
// body strategies in that order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		SelectorCascade{Selectors: ContentSelectors},
		AttributeHeuristic{Keywords: AttributeKeywords},
		StructuralTraversal{MinBlock: 50, MaxChildren: 5},
		AggressiveScan{
			Selector:  BlockSelector,
			MinBlock:  30,
			LongBlock: 100,
			IsLegal:   classify.ContainsLegalTerminology,
			Exclude:   []string{"nav", "header", "footer", "aside"},
		},
		BodyFallback{},
	}
}

// Detect decides whether the page should be extracted at all. A manual
// override or a site-specific match skips the classifier.
func (c *Chain) Detect(p *Page, manualOverride bool) model.Detection {
	if manualOverride {
		return model.Detection{Legal: true, Reason: model.DetectedByManual}
	}
	if site, ok := c.site(p); ok {
		return model.Detection{Legal: true, Reason: model.DetectedBySite, Matches: []string{site.Name()}}
	}
	return c.classifier.Detect(p.Signal())
}

// Extract returns the text of the first strategy whose candidate exceeds
// the threshold. Site-specific cascades run first and fall back to the
// generic chain. It returns ErrExtractionEmpty when the page is not legal
// or no strategy qualifies.
func (c *Chain) Extract(p *Page, manualOverride bool) (*model.ExtractionResult, error) {
	if site, ok := c.site(p); ok {
		if res, ok := c.run(p, site.Strategies()); ok {
			res.Detail = site.Name() + ":" + res.Detail
			return res, nil
		}
		log.Debug().Str("site", site.Name()).Msg("site cascade found nothing, using generic chain")
	}

	if d := c.Detect(p, manualOverride); !d.Legal {
		return nil, fmt.Errorf("%w: page not classified as legal", ErrExtractionEmpty)
	}

	if res, ok := c.run(p, c.strategies); ok {
		return res, nil
	}
	return nil, fmt.Errorf("%w: no strategy found more than %d characters", ErrExtractionEmpty, c.threshold)
}

func (c *Chain) run(p *Page, strategies []Strategy) (*model.ExtractionResult, bool) {
	for _, s := range strategies {
		cand, ok := s.Extract(p, c.threshold)
		if !ok {
			continue
		}

		text := strings.TrimSpace(cand.Text)
		n := length(text)
		if n <= c.threshold {
			log.Debug().Str("strategy", string(s.Name())).Int("length", n).Msg("candidate below threshold")
			continue
		}

		log.Debug().Str("strategy", string(s.Name())).Str("detail", cand.Detail).Int("length", n).Msg("extracted")
		return &model.ExtractionResult{
			Text:           text,
			SourceStrategy: s.Name(),
			Detail:         cand.Detail,
			Length:         n,
		}, true
	}
	return nil, false
}

func (c *Chain) site(p *Page) (SiteChain, bool) {
	if c.sites == nil {
		return nil, false
	}
	return c.sites.Resolve(p.URL())
}

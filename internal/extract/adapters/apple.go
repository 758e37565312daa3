package adapters

import (
	"strings"

	"github.com/ppiankov/legalens/internal/extract"
)

// AppleITunesAdapter handles the iTunes / Media Services terms pages
type AppleITunesAdapter struct{}

// NewAppleITunesAdapter creates the iTunes terms adapter
func NewAppleITunesAdapter() *AppleITunesAdapter {
	return &AppleITunesAdapter{}
}

// Name returns the adapter name
func (a *AppleITunesAdapter) Name() string {
	return "apple-itunes"
}

// CanHandle matches apple.com/.../internet-services/itunes/.../terms.html
func (a *AppleITunesAdapter) CanHandle(rawURL string) bool {
	u := strings.ToLower(rawURL)
	return strings.Contains(u, "apple.com") &&
		strings.Contains(u, "/internet-services/itunes") &&
		strings.Contains(u, "/terms.html")
}

// Strategies returns the iTunes steps followed by the general Apple steps
func (a *AppleITunesAdapter) Strategies() []extract.Strategy {
	steps := []extract.Strategy{
		step("section-content", func(p *extract.Page, _ int) string {
			return p.First("main .section-content")
		}),
		step("terms-container", func(p *extract.Page, _ int) string {
			return p.First(".main .terms-container", ".main .terms", ".section-content")
		}),
		step("primary-column", func(p *extract.Page, _ int) string {
			return p.First("#main .column.primary", ".primary.content")
		}),
		step("sections", func(p *extract.Page, threshold int) string {
			return joined(p.Collect("section", 100), threshold)
		}),
		step("text-blocks", func(p *extract.Page, threshold int) string {
			return joined(p.Collect("p, li, h1, h2, h3, h4, h5, h6", 10, "nav", "footer"), threshold)
		}),
		step("largest-div", func(p *extract.Page, _ int) string {
			return p.Longest("div")
		}),
		step("fallback-selectors", func(p *extract.Page, threshold int) string {
			return firstOver(p, threshold, "main .section-content", "#main-content", ".main.legal", ".legal-container", ".section")
		}),
	}
	return append(steps, NewAppleLegalAdapter().Strategies()...)
}

// AppleLegalAdapter handles other apple.com legal pages
type AppleLegalAdapter struct{}

// NewAppleLegalAdapter creates the Apple legal adapter
func NewAppleLegalAdapter() *AppleLegalAdapter {
	return &AppleLegalAdapter{}
}

// Name returns the adapter name
func (a *AppleLegalAdapter) Name() string {
	return "apple-legal"
}

// CanHandle matches apple.com URLs under /legal/, /terms or /itunes
func (a *AppleLegalAdapter) CanHandle(rawURL string) bool {
	u := strings.ToLower(rawURL)
	if !strings.Contains(u, "apple.com") {
		return false
	}
	return strings.Contains(u, "/legal/") || strings.Contains(u, "/terms") || strings.Contains(u, "/itunes")
}

// Strategies returns the seven Apple legal steps
func (a *AppleLegalAdapter) Strategies() []extract.Strategy {
	traversal := extract.StructuralTraversal{MinBlock: 50, MaxChildren: 5}
	blocks := extract.AggressiveScan{
		Selector: extract.BlockSelector,
		MinBlock: 30,
		Exclude:  []string{"nav", "footer"},
	}

	return []extract.Strategy{
		step("terms-container", func(p *extract.Page, _ int) string {
			return p.First(".main.terms", ".main.legal", ".terms-container", "#main section")
		}),
		step("analytics-section", func(p *extract.Page, _ int) string {
			return p.First(`[data-analytics-section="legal"]`,
				`[data-analytics-region="terms and conditions"]`,
				`[data-analytics-region="legal"]`)
		}),
		step("sections", func(p *extract.Page, threshold int) string {
			return joined(p.Collect("section", 100), threshold)
		}),
		step("main", func(p *extract.Page, _ int) string {
			return p.First("main", ".main", "#main")
		}),
		step("lists", func(p *extract.Page, threshold int) string {
			return joined(p.Collect("ol, ul", 100), threshold)
		}),
		step("traversal", func(p *extract.Page, _ int) string {
			c, _ := traversal.Extract(p, 0)
			return c.Text
		}),
		step("blocks", func(p *extract.Page, _ int) string {
			c, _ := blocks.Extract(p, 0)
			return c.Text
		}),
	}
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/legalens/internal/model"
	"golang.org/x/net/html"
)

// Candidate is the best text a strategy found
type Candidate struct {
	Text   string
	Detail string
}

// Strategy is one step of an extraction cascade. Extract returns the
// strategy's best candidate; the chain decides whether it is long enough.
type Strategy interface {
	Name() model.Strategy
	Extract(p *Page, threshold int) (Candidate, bool)
}

// StepFunc adapts a function into a Strategy
type StepFunc struct {
	Kind  model.Strategy
	Label string
	Fn    func(p *Page, threshold int) string
}

// Name returns the step kind
func (s StepFunc) Name() model.Strategy { return s.Kind }

// Extract runs the function
func (s StepFunc) Extract(p *Page, threshold int) (Candidate, bool) {
	text := s.Fn(p, threshold)
	if text == "" {
		return Candidate{}, false
	}
	return Candidate{Text: text, Detail: s.Label}, true
}

var defaultLandmarks = []string{"nav", "header", "footer"}

// SelectorCascade tries each selector in order and accepts the longest
// match of the first selector that clears the threshold.
type SelectorCascade struct {
	Selectors []string
}

func (s SelectorCascade) Name() model.Strategy { return model.StrategySelector }

func (s SelectorCascade) Extract(p *Page, threshold int) (Candidate, bool) {
	for _, sel := range s.Selectors {
		var text string
		if strings.HasPrefix(sel, "iframe") {
			text = p.frameText(sel, threshold)
		} else {
			text = p.Longest(sel, defaultLandmarks...)
		}
		if length(text) > threshold {
			return Candidate{Text: text, Detail: sel}, true
		}
	}
	return Candidate{}, false
}

// AttributeHeuristic picks the largest visible element whose id or class
// contains one of the keywords.
type AttributeHeuristic struct {
	Keywords []string
}

func (s AttributeHeuristic) Name() model.Strategy { return model.StrategyAttribute }

func (s AttributeHeuristic) Extract(p *Page, _ int) (Candidate, bool) {
	parts := make([]string, 0, len(s.Keywords)*2)
	for _, kw := range s.Keywords {
		parts = append(parts, `[id*="`+kw+`"]`, `[class*="`+kw+`"]`)
	}
	text := p.Longest(strings.Join(parts, ", "), defaultLandmarks...)
	if text == "" {
		return Candidate{}, false
	}
	return Candidate{Text: text}, true
}

// StructuralTraversal walks the body depth-first and collects leaf-like
// text blocks: more than MinBlock characters and fewer than MaxChildren
// child elements.
type StructuralTraversal struct {
	MinBlock    int
	MaxChildren int
}

func (s StructuralTraversal) Name() model.Strategy { return model.StrategyTraversal }

func (s StructuralTraversal) Extract(p *Page, _ int) (Candidate, bool) {
	var blocks []string
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if !p.Visible(n) || inLandmark(n, defaultLandmarks...) {
			return
		}

		text := p.Text(n)
		if length(text) > s.MinBlock && childElements(n) < s.MaxChildren && !seen[text] {
			seen[text] = true
			blocks = append(blocks, text)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(p.Body())

	if len(blocks) == 0 {
		return Candidate{}, false
	}
	return Candidate{Text: JoinBlocks(blocks)}, true
}

// AggressiveScan keeps every block longer than MinBlock that either uses
// legal terminology or is longer than LongBlock. A nil IsLegal keeps every
// block over MinBlock.
type AggressiveScan struct {
	Selector  string
	MinBlock  int
	LongBlock int
	IsLegal   func(string) bool
	Exclude   []string
}

func (s AggressiveScan) Name() model.Strategy { return model.StrategyAggressive }

func (s AggressiveScan) Extract(p *Page, _ int) (Candidate, bool) {
	var blocks []string
	p.each(s.Selector, s.Exclude, func(text string) {
		if length(text) <= s.MinBlock {
			return
		}
		if s.IsLegal == nil || s.IsLegal(text) || length(text) > s.LongBlock {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return Candidate{}, false
	}
	return Candidate{Text: JoinBlocks(blocks)}, true
}

// BodyFallback returns all visible text of the page
type BodyFallback struct{}

func (BodyFallback) Name() model.Strategy { return model.StrategyBody }

func (BodyFallback) Extract(p *Page, _ int) (Candidate, bool) {
	text := p.BodyText()
	return Candidate{Text: text}, text != ""
}

// JoinBlocks joins text blocks with blank lines
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}

// Longest returns the text of the longest visible match of selector that
// is not inside one of the excluded landmarks.
func (p *Page) Longest(selector string, exclude ...string) string {
	best := ""
	p.each(selector, exclude, func(text string) {
		if length(text) > length(best) {
			best = text
		}
	})
	return best
}

// Collect returns the texts of visible matches longer than minLen, in
// document order.
func (p *Page) Collect(selector string, minLen int, exclude ...string) []string {
	var out []string
	p.each(selector, exclude, func(text string) {
		if length(text) > minLen {
			out = append(out, text)
		}
	})
	return out
}

// First returns the text of the first visible element matched by the
// first selector with a visible match.
func (p *Page) First(selectors ...string) string {
	for _, sel := range selectors {
		for _, n := range p.doc.Find(sel).Nodes {
			if p.Visible(n) {
				return p.Text(n)
			}
		}
	}
	return ""
}

func (p *Page) each(selector string, exclude []string, fn func(text string)) {
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if !p.Visible(n) || (len(exclude) > 0 && inLandmark(n, exclude...)) {
			return
		}
		if text := p.Text(n); text != "" {
			fn(text)
		}
	})
}

// frameText returns the body text of the first loaded frame matching
// selector whose text clears the threshold.
func (p *Page) frameText(selector string, threshold int) string {
	for _, n := range p.doc.Find(selector).Nodes {
		frame, ok := p.Frame(n)
		if !ok {
			continue
		}
		if text := frame.BodyText(); length(text) > threshold {
			return text
		}
	}
	return ""
}

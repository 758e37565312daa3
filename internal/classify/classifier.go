// Package classify decides whether a page holds a legal or policy document.
// It uses fixed keyword lists only; there is no language model involved.
package classify

import (
	"strings"

	"github.com/ppiankov/legalens/internal/model"
)

// minBodyPhrases is how many distinct legal phrases the body must contain
const minBodyPhrases = 3

// Classifier runs the ordered legal-document tests
type Classifier struct {
	urlPatterns     []string
	titlePatterns   []string
	headingPatterns []string
	bodyPhrases     []string
	legalDomains    []string
}

// New creates a classifier with the built-in pattern lists
func New() *Classifier {
	return &Classifier{
		urlPatterns:     urlPatterns,
		titlePatterns:   titlePatterns,
		headingPatterns: headingPatterns,
		bodyPhrases:     bodyPhrases,
		legalDomains:    legalDomains,
	}
}

// IsLegalDocument reports whether the page looks like a legal document
func (c *Classifier) IsLegalDocument(signal model.PageSignal) bool {
	return c.Detect(signal).Legal
}

// Detect runs the tests in order (URL, title, headings, body phrases, known
// domains) and stops at the first one that matches.
func (c *Classifier) Detect(signal model.PageSignal) model.Detection {
	url := strings.ToLower(signal.URL)

	if p, ok := firstContained(url, c.urlPatterns); ok {
		return detected(model.DetectedByURL, p)
	}

	title := strings.ToLower(signal.Title)
	if p, ok := firstContained(title, c.titlePatterns); ok {
		return detected(model.DetectedByTitle, p)
	}

	for _, heading := range signal.Headings {
		if p, ok := firstContained(strings.ToLower(heading), c.headingPatterns); ok {
			return detected(model.DetectedByHeading, p)
		}
	}

	if phrases := c.bodyMatches(strings.ToLower(signal.BodyText)); len(phrases) >= minBodyPhrases {
		return detected(model.DetectedByBody, phrases...)
	}

	if p, ok := firstContained(url, c.legalDomains); ok {
		return detected(model.DetectedByDomain, p)
	}

	return model.Detection{Legal: false, Reason: model.NotDetected}
}

// bodyMatches collects distinct phrases found in body, stopping at the third
func (c *Classifier) bodyMatches(body string) []string {
	if body == "" {
		return nil
	}

	var found []string
	for _, phrase := range c.bodyPhrases {
		if strings.Contains(body, phrase) {
			found = append(found, phrase)
			if len(found) >= minBodyPhrases {
				break
			}
		}
	}
	return found
}

func detected(reason model.DetectionReason, matches ...string) model.Detection {
	return model.Detection{Legal: true, Reason: reason, Matches: matches}
}

func firstContained(s string, patterns []string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return p, true
		}
	}
	return "", false
}

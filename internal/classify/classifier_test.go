package classify_test

import (
	"testing"

	"github.com/ppiankov/legalens/internal/classify"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		signal model.PageSignal
		legal  bool
		reason model.DetectionReason
	}{
		{
			name:   "url fragment",
			signal: model.PageSignal{URL: "https://example.com/privacy-policy"},
			legal:  true,
			reason: model.DetectedByURL,
		},
		{
			name: "title keyword only",
			signal: model.PageSignal{
				URL:   "https://example.com/about",
				Title: "Terms of Service",
			},
			legal:  true,
			reason: model.DetectedByTitle,
		},
		{
			name: "heading phrase",
			signal: model.PageSignal{
				URL:      "https://example.com/doc",
				Title:    "Welcome",
				Headings: []string{"Getting started", "Acceptable Use Policy"},
			},
			legal:  true,
			reason: model.DetectedByHeading,
		},
		{
			name: "three body phrases",
			signal: model.PageSignal{
				URL:      "https://example.com/page",
				Title:    "Welcome",
				BodyText: "By signing up you agree to these rules. Governing law is Delaware. Severability applies.",
			},
			legal:  true,
			reason: model.DetectedByBody,
		},
		{
			name: "two body phrases are not enough",
			signal: model.PageSignal{
				URL:      "https://example.com/page",
				Title:    "Welcome",
				BodyText: "By signing up you agree to these rules. Governing law is Delaware.",
			},
			legal:  false,
			reason: model.NotDetected,
		},
		{
			name: "known domain",
			signal: model.PageSignal{
				URL:   "https://www.iubenda.com/en/help/1",
				Title: "Welcome",
			},
			legal:  true,
			reason: model.DetectedByDomain,
		},
		{
			name: "ordinary page",
			signal: model.PageSignal{
				URL:      "https://example.com/blog/pasta",
				Title:    "Pasta Recipes",
				Headings: []string{"Ingredients"},
				BodyText: "Boil water and add salt.",
			},
			legal:  false,
			reason: model.NotDetected,
		},
	}

	c := classify.New()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Detect(tt.signal)
			assert.Equal(t, tt.legal, got.Legal)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.legal, c.IsLegalDocument(tt.signal))
		})
	}
}

func TestClassifier_BodyStopsAtThirdPhrase(t *testing.T) {
	t.Parallel()

	signal := model.PageSignal{
		URL:      "https://example.com/page",
		BodyText: "Terms of service. Privacy policy. Cookie policy. User agreement. Legal notice.",
	}

	got := classify.New().Detect(signal)
	assert.Equal(t, model.DetectedByBody, got.Reason)
	assert.Equal(t, []string{"terms of service", "privacy policy", "cookie policy"}, got.Matches)
}

func TestClassifier_URLCheckedBeforeTitle(t *testing.T) {
	t.Parallel()

	signal := model.PageSignal{URL: "https://example.com/legal/notice", Title: "Privacy"}

	got := classify.New().Detect(signal)
	assert.Equal(t, model.DetectedByURL, got.Reason)
	assert.Equal(t, []string{"/legal"}, got.Matches)
}

func TestContainsLegalTerminology(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"You may cancel your subscription at any time.", false},
		{"The quick brown fox jumps over the lazy dog", false},
		{"These terms apply to everyone.", true},
		{"See Section 4.2 for details", true},
		{"Article 12 covers this", true},
		{"1. INTRODUCTION", true},
		{"3.1. Scope of the service", true},
		{"Last updated on March 3", true},
		{"© 2024 Example Inc", true},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classify.ContainsLegalTerminology(tt.text))
		})
	}
}

package adapters_test

import (
	"strings"
	"testing"

	"github.com/ppiankov/legalens/internal/extract"
	"github.com/ppiankov/legalens/internal/extract/adapters"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itunesURL = "https://www.apple.com/legal/internet-services/itunes/us/terms.html"

func filler(n int) string {
	return strings.Repeat("x", n)
}

func TestRegistry_FindAdapter(t *testing.T) {
	t.Parallel()

	r := adapters.NewRegistry()

	tests := []struct {
		url  string
		want string
	}{
		{itunesURL, "apple-itunes"},
		{"https://www.apple.com/legal/privacy/en-ww/", "apple-legal"},
		{"https://www.apple.com/itunes/", "apple-legal"},
		{"https://example.com/terms", ""},
		{"https://www.apple.com/iphone/", ""},
	}

	for _, tt := range tests {
		a, ok := r.FindAdapter(tt.url)
		if tt.want == "" {
			assert.False(t, ok, tt.url)
			continue
		}
		require.True(t, ok, tt.url)
		assert.Equal(t, tt.want, a.Name())
	}
}

func TestAppleITunes_SectionContent(t *testing.T) {
	t.Parallel()

	p, err := extract.NewPage(itunesURL, `<html><body>
		<nav>Store</nav>
		<main><div class="section-content">`+filler(600)+`</div></main>
	</body></html>`)
	require.NoError(t, err)

	chain := extract.NewChain(extract.WithSites(adapters.NewRegistry()))
	res, err := chain.Extract(p, false)
	require.NoError(t, err)
	assert.Equal(t, model.StrategySite, res.SourceStrategy)
	assert.Equal(t, "apple-itunes:section-content", res.Detail)
	assert.Equal(t, 600, res.Length)
}

func TestAppleLegal_Lists(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 3; i++ {
		b.WriteString("<ol><li>" + filler(120) + "</li><li>" + filler(120) + "</li></ol>")
	}

	p, err := extract.NewPage("https://www.apple.com/legal/sla/", "<html><body>"+b.String()+"</body></html>")
	require.NoError(t, err)

	chain := extract.NewChain(extract.WithSites(adapters.NewRegistry()))
	res, err := chain.Extract(p, false)
	require.NoError(t, err)
	assert.Equal(t, "apple-legal:lists", res.Detail)
}

func TestAppleLegal_FallsBackToGenericChain(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 13; i++ {
		b.WriteString("<span>" + filler(49) + "</span> ")
	}

	p, err := extract.NewPage("https://www.apple.com/legal/sla/", "<html><body>"+b.String()+"</body></html>")
	require.NoError(t, err)

	chain := extract.NewChain(extract.WithSites(adapters.NewRegistry()))

	d := chain.Detect(p, false)
	assert.True(t, d.Legal)
	assert.Equal(t, model.DetectedBySite, d.Reason)

	res, err := chain.Extract(p, false)
	require.NoError(t, err)
	assert.Equal(t, model.StrategyBody, res.SourceStrategy)
}

package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/legalens/internal/model"
)

func TestTruncateDocument(t *testing.T) {
	short := strings.Repeat("a", MaxDocumentChars)
	assert.Equal(t, short, TruncateDocument(short))

	long := strings.Repeat("é", MaxDocumentChars+10)
	got := TruncateDocument(long)
	assert.True(t, strings.HasSuffix(got, TruncationNotice))
	assert.Equal(t, MaxDocumentChars, len([]rune(strings.TrimSuffix(got, TruncationNotice))))
}

func TestBuildPrompt_ProviderSuffixes(t *testing.T) {
	for id, suffix := range promptSuffixes {
		prompt := BuildPrompt("the document", id, Style{})
		assert.Contains(t, prompt, "the document")
		assert.True(t, strings.HasSuffix(prompt, suffix), "provider %s", id)
	}

	assert.Contains(t, BuildPrompt("doc", model.ProviderGemini, Style{}), "NO CODE BLOCKS")
}

func TestBuildPrompt_Style(t *testing.T) {
	simple := BuildPrompt("doc", model.ProviderOpenAI, Style{Language: "simple"})
	assert.Contains(t, simple, "5th grader")

	detailed := BuildPrompt("doc", model.ProviderOpenAI, Style{Language: "detailed", Length: "short"})
	assert.Contains(t, detailed, "explain them briefly")
	assert.Contains(t, detailed, "one short paragraph")
}

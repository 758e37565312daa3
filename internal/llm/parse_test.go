package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/legalens/internal/model"
)

func TestParseResponse_FencedAndBareAgree(t *testing.T) {
	bare, err := ParseResponse(sampleReply, "m")
	require.NoError(t, err)

	fenced, err := ParseResponse("```json\n"+sampleReply+"\n```", "m")
	require.NoError(t, err)

	assert.Equal(t, bare, fenced)
	assert.Equal(t, model.RiskHigh, bare.KeyPoints[0].RiskLevel)
	assert.Len(t, bare.Grades, 6)
}

func TestParseResponse_ObjectInsideProse(t *testing.T) {
	raw := "Here is the analysis you asked for:\n" + sampleReply + "\nLet me know if you need more."

	report, err := ParseResponse(raw, "m")
	require.NoError(t, err)
	assert.Equal(t, "You give the service a licence to your content.", report.Summary)
}

func TestParseResponse_NoObject(t *testing.T) {
	_, err := ParseResponse("I am unable to analyze this document.", "gpt-4o-mini")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "gpt-4o-mini", parseErr.Model)
	assert.Contains(t, parseErr.Snippet, "unable to analyze")
}

func TestParseResponse_BrokenObject(t *testing.T) {
	_, err := ParseResponse(`Result: {"summary": "x", }`, "m")

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestParseResponse_LenientFields(t *testing.T) {
	raw := `{
		"summary": "  Short.  ",
		"keyPoints": ["Plain string point", {"text": "", "riskLevel": "high"}, {"text": "Odd level", "riskLevel": "severe"}],
		"risks": ["", "Data sold", {"text": "Object risk"}],
		"grades": {"Overall": "b", "privacy": "F", "speed": "A"},
		"complexity": {"score": 123.6, "terms": ["waiver", {"term": "estoppel", "level": "COMPLEX"}]}
	}`

	report, err := ParseResponse(raw, "m")
	require.NoError(t, err)

	assert.Equal(t, "Short.", report.Summary)
	assert.Equal(t, []model.KeyPoint{
		{Text: "Plain string point", RiskLevel: model.RiskMedium},
		{Text: "Odd level", RiskLevel: model.RiskMedium},
	}, report.KeyPoints)
	assert.Equal(t, []string{"Data sold", "Object risk"}, report.Risks)
	assert.Equal(t, map[model.GradeCategory]model.Grade{model.CategoryOverall: model.GradeB}, report.Grades)
	require.NotNil(t, report.Complexity.Score)
	assert.Equal(t, 100, *report.Complexity.Score)
	assert.Equal(t, []model.Term{
		{Term: "waiver", Level: model.TermModerate},
		{Term: "estoppel", Level: model.TermComplex},
	}, report.Complexity.Terms)
}

func TestParseResponse_MissingScore(t *testing.T) {
	report, err := ParseResponse(`{"summary": "s", "complexity": {"score": "high"}}`, "m")
	require.NoError(t, err)
	assert.Nil(t, report.Complexity.Score)
	assert.Empty(t, report.Grades)
}

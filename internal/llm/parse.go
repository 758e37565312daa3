package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/legalens/internal/model"
)

var (
	fencePattern  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

	errNoObject = errors.New("no JSON object in response")
)

const snippetLen = 120

// ParseResponse recovers an analysis report from a model reply. A fenced
// code block is unwrapped first; if the result is not a JSON object the
// widest {...} span is tried before giving up with *ParseError.
func ParseResponse(raw, modelName string) (*model.AnalysisReport, error) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	obj, err := decodeObject(text)
	if err != nil {
		span := objectPattern.FindString(text)
		if span == "" {
			return nil, &ParseError{Model: modelName, Snippet: snippet(raw), Err: errNoObject}
		}
		if obj, err = decodeObject(span); err != nil {
			return nil, &ParseError{Model: modelName, Snippet: snippet(raw), Err: err}
		}
	}

	return normalize(obj), nil
}

func decodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNoObject
	}
	return obj, nil
}

func snippet(raw string) string {
	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) <= snippetLen {
		return raw
	}
	return string([]rune(raw)[:snippetLen]) + "..."
}

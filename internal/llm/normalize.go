package llm

import (
	"math"
	"strings"

	"github.com/ppiankov/legalens/internal/model"
)

// normalize maps a decoded reply onto the report shape. Models drift from
// the requested format, so unknown enum values fall back to defaults and
// malformed entries are dropped rather than failing the whole reply.
func normalize(obj map[string]any) *model.AnalysisReport {
	report := &model.AnalysisReport{
		Summary:   strings.TrimSpace(str(obj["summary"])),
		KeyPoints: []model.KeyPoint{},
		Risks:     []string{},
		Grades:    map[model.GradeCategory]model.Grade{},
		Complexity: model.Complexity{
			Terms: []model.Term{},
		},
	}

	for _, item := range list(obj["keyPoints"]) {
		if kp, ok := keyPoint(item); ok {
			report.KeyPoints = append(report.KeyPoints, kp)
		}
	}

	for _, item := range list(obj["risks"]) {
		if text := itemText(item, "text", "risk"); text != "" {
			report.Risks = append(report.Risks, text)
		}
	}

	if grades, ok := obj["grades"].(map[string]any); ok {
		for key, value := range grades {
			category := model.GradeCategory(strings.ToLower(strings.TrimSpace(key)))
			if !isCategory(category) {
				continue
			}
			if grade, ok := model.ParseGrade(str(value)); ok {
				report.Grades[category] = grade
			}
		}
	}

	if complexity, ok := obj["complexity"].(map[string]any); ok {
		if score, ok := complexity["score"].(float64); ok {
			s := int(math.Round(score))
			s = max(0, min(100, s))
			report.Complexity.Score = &s
		}
		for _, item := range list(complexity["terms"]) {
			if term, ok := legalTerm(item); ok {
				report.Complexity.Terms = append(report.Complexity.Terms, term)
			}
		}
	}

	return report
}

func keyPoint(item any) (model.KeyPoint, bool) {
	text := itemText(item, "text", "point")
	if text == "" {
		return model.KeyPoint{}, false
	}

	level := model.RiskMedium
	if m, ok := item.(map[string]any); ok {
		switch model.RiskLevel(strings.ToLower(strings.TrimSpace(str(m["riskLevel"])))) {
		case model.RiskLow:
			level = model.RiskLow
		case model.RiskHigh:
			level = model.RiskHigh
		}
	}
	return model.KeyPoint{Text: text, RiskLevel: level}, true
}

func legalTerm(item any) (model.Term, bool) {
	text := itemText(item, "term")
	if text == "" {
		return model.Term{}, false
	}

	level := model.TermModerate
	if m, ok := item.(map[string]any); ok {
		switch model.TermLevel(strings.ToLower(strings.TrimSpace(str(m["level"])))) {
		case model.TermSimple:
			level = model.TermSimple
		case model.TermComplex:
			level = model.TermComplex
		}
	}
	return model.Term{Term: text, Level: level}, true
}

// itemText accepts either a bare string or an object carrying the text
// under one of keys.
func itemText(item any, keys ...string) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, k := range keys {
			if s := strings.TrimSpace(str(v[k])); s != "" {
				return s
			}
		}
	}
	return ""
}

func isCategory(c model.GradeCategory) bool {
	for _, known := range model.GradeCategories {
		if c == known {
			return true
		}
	}
	return false
}

func list(v any) []any {
	items, _ := v.([]any)
	return items
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

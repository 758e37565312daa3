package fusion

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/legalens/internal/model"
)

const (
	// MaxKeyPoints caps the fused key point list
	MaxKeyPoints = 7

	// MaxRisks caps the fused risk list
	MaxRisks = 5

	dedupPrefixLen   = 15
	insightLen       = 200
	insightSeparator = "\n\nAdditional insights: "
)

// Contribution is one provider's successful report
type Contribution struct {
	Provider model.ProviderID
	Report   *model.AnalysisReport
}

// Merge fuses contributions in the order given. A lone report is passed
// through with only its missing fields filled in.
func Merge(contributions []Contribution) *model.FusedReport {
	ids := make([]model.ProviderID, 0, len(contributions))
	for _, c := range contributions {
		ids = append(ids, c.Provider)
	}

	if len(contributions) == 1 {
		return &model.FusedReport{
			AnalysisReport:     complete(*contributions[0].Report),
			ModelContributions: ids,
		}
	}

	fused := model.AnalysisReport{
		KeyPoints: []model.KeyPoint{},
		Risks:     []string{},
		Grades:    averageGrades(contributions),
		Complexity: model.Complexity{
			Terms: []model.Term{},
		},
	}

	var (
		scoreSum   int
		scoreCount int
		seenTerms  = make(map[string]bool)
	)

	for _, c := range contributions {
		r := c.Report
		fused.Summary = mergeSummary(fused.Summary, r.Summary)

		for _, kp := range r.KeyPoints {
			if !containsNear(len(fused.KeyPoints), func(i int) string { return fused.KeyPoints[i].Text }, kp.Text) {
				fused.KeyPoints = append(fused.KeyPoints, kp)
			}
		}

		for _, risk := range r.Risks {
			if !containsNear(len(fused.Risks), func(i int) string { return fused.Risks[i] }, risk) {
				fused.Risks = append(fused.Risks, risk)
			}
		}

		if r.Complexity.Score != nil {
			scoreSum += *r.Complexity.Score
			scoreCount++
		}

		for _, t := range r.Complexity.Terms {
			key := strings.ToLower(t.Term)
			if seenTerms[key] {
				continue
			}
			seenTerms[key] = true
			fused.Complexity.Terms = append(fused.Complexity.Terms, t)
		}
	}

	if len(fused.KeyPoints) > MaxKeyPoints {
		fused.KeyPoints = fused.KeyPoints[:MaxKeyPoints]
	}
	if len(fused.Risks) > MaxRisks {
		fused.Risks = fused.Risks[:MaxRisks]
	}

	var score int
	if scoreCount > 0 {
		score = int(math.Round(float64(scoreSum) / float64(scoreCount)))
	} else {
		score = model.DefaultComplexityScore(fused.Grades[model.CategoryComplexity])
	}
	fused.Complexity.Score = &score

	return &model.FusedReport{
		AnalysisReport:     fused,
		ModelContributions: ids,
	}
}

// averageGrades averages each category's ordinal grade values. Categories
// nobody graded get the default.
func averageGrades(contributions []Contribution) map[model.GradeCategory]model.Grade {
	grades := make(map[model.GradeCategory]model.Grade, len(model.GradeCategories))

	for _, category := range model.GradeCategories {
		total, count := 0, 0
		for _, c := range contributions {
			if v, ok := c.Report.Grades[category].Value(); ok {
				total += v
				count++
			}
		}

		if count == 0 {
			grades[category] = model.DefaultGrade
			continue
		}
		grades[category] = model.GradeFromValue(int(math.Round(float64(total) / float64(count))))
	}

	return grades
}

func mergeSummary(acc, next string) string {
	if next == "" {
		return acc
	}
	if acc == "" {
		return next
	}
	if float64(utf8.RuneCountInString(next)) > float64(utf8.RuneCountInString(acc))*0.5 {
		return acc + insightSeparator + prefix(next, insightLen) + "..."
	}
	return acc
}

// containsNear reports whether candidate looks like one of the n existing
// entries: either text's leading characters appear in the other.
func containsNear(n int, existing func(int) string, candidate string) bool {
	c := strings.ToLower(candidate)
	if strings.TrimSpace(c) == "" {
		return true
	}
	cPrefix := prefix(c, dedupPrefixLen)

	for i := 0; i < n; i++ {
		e := strings.ToLower(existing(i))
		if e == "" {
			continue
		}
		if strings.Contains(e, cPrefix) || strings.Contains(c, prefix(e, dedupPrefixLen)) {
			return true
		}
	}
	return false
}

// complete fills in fields a lone report left out so the result always
// carries every grade category and a score
func complete(r model.AnalysisReport) model.AnalysisReport {
	grades := make(map[model.GradeCategory]model.Grade, len(model.GradeCategories))
	for k, v := range r.Grades {
		grades[k] = v
	}
	for _, category := range model.GradeCategories {
		if _, ok := grades[category].Value(); !ok {
			grades[category] = model.DefaultGrade
		}
	}
	r.Grades = grades

	if r.KeyPoints == nil {
		r.KeyPoints = []model.KeyPoint{}
	}
	if r.Risks == nil {
		r.Risks = []string{}
	}
	if r.Complexity.Terms == nil {
		r.Complexity.Terms = []model.Term{}
	}
	if r.Complexity.Score == nil {
		score := model.DefaultComplexityScore(grades[model.CategoryComplexity])
		r.Complexity.Score = &score
	} else {
		score := max(0, min(100, *r.Complexity.Score))
		r.Complexity.Score = &score
	}

	return r
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

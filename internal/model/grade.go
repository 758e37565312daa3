package model

import "strings"

// Grade is a letter grade from A (best) to E (worst)
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// GradeCategory is one of the fixed graded aspects of a document
type GradeCategory string

const (
	CategoryOverall      GradeCategory = "overall"
	CategoryTransparency GradeCategory = "transparency"
	CategoryComplexity   GradeCategory = "complexity"
	CategoryFairness     GradeCategory = "fairness"
	CategoryPrivacy      GradeCategory = "privacy"
	CategoryRisks        GradeCategory = "risks"
)

// GradeCategories lists every category in report order
var GradeCategories = []GradeCategory{
	CategoryOverall,
	CategoryTransparency,
	CategoryComplexity,
	CategoryFairness,
	CategoryPrivacy,
	CategoryRisks,
}

// DefaultGrade is used for categories nobody graded
const DefaultGrade = GradeC

var gradeValues = map[Grade]int{
	GradeA: 4,
	GradeB: 3,
	GradeC: 2,
	GradeD: 1,
	GradeE: 0,
}

// ParseGrade normalizes a letter such as " b " into a Grade
func ParseGrade(s string) (Grade, bool) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := gradeValues[g]
	return g, ok
}

// Value returns the ordinal value of the grade (A=4 ... E=0)
func (g Grade) Value() (int, bool) {
	v, ok := gradeValues[g]
	return v, ok
}

// GradeFromValue maps an ordinal value back to a letter, clamping out-of-range values
func GradeFromValue(v int) Grade {
	switch {
	case v >= 4:
		return GradeA
	case v == 3:
		return GradeB
	case v == 2:
		return GradeC
	case v == 1:
		return GradeD
	default:
		return GradeE
	}
}

// DefaultComplexityScore derives a complexity score from the complexity grade
func DefaultComplexityScore(g Grade) int {
	switch g {
	case GradeA:
		return 20
	case GradeB:
		return 40
	case GradeD:
		return 80
	case GradeE:
		return 95
	default:
		return 60
	}
}

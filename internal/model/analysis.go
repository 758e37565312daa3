package model

// ProviderID identifies one LLM backend
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderGemini    ProviderID = "gemini"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderOllama    ProviderID = "ollama"
)

// RiskLevel rates how concerning a key point is for the reader
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TermLevel rates how hard a jargon term is
type TermLevel string

const (
	TermSimple   TermLevel = "simple"
	TermModerate TermLevel = "moderate"
	TermComplex  TermLevel = "complex"
)

// KeyPoint is one notable clause of the document
type KeyPoint struct {
	Text      string    `json:"text"`
	RiskLevel RiskLevel `json:"riskLevel"`
}

// Term is a jargon term found in the document
type Term struct {
	Term  string    `json:"term"`
	Level TermLevel `json:"level"`
}

// Complexity describes how hard the document is to read.
// Score is nil when a provider did not report a numeric score.
type Complexity struct {
	Score *int   `json:"score,omitempty"`
	Terms []Term `json:"terms"`
}

// AnalysisReport is the shape every provider reply is normalized into
type AnalysisReport struct {
	Summary    string                  `json:"summary"`
	KeyPoints  []KeyPoint              `json:"keyPoints"`
	Risks      []string                `json:"risks"`
	Grades     map[GradeCategory]Grade `json:"grades"`
	Complexity Complexity              `json:"complexity"`
}

// ProviderFailure records why a provider produced no report
type ProviderFailure struct {
	Provider ProviderID `json:"provider"`
	Reason   string     `json:"reason"`
}

// FusedReport is the merged result of one or more provider reports
type FusedReport struct {
	AnalysisReport
	ModelContributions []ProviderID      `json:"modelContributions"`
	Failures           []ProviderFailure `json:"failures,omitempty"`
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

package model

// PageSignal is a read-only snapshot of the page parts the classifier looks at.
type PageSignal struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Headings []string `json:"headings"`
	BodyText string   `json:"body_text"`
}

// Strategy identifies which extraction step produced a result
type Strategy string

const (
	StrategySelector   Strategy = "selector"   // Prioritized selector cascade
	StrategyAttribute  Strategy = "attribute"  // id/class keyword heuristic
	StrategyTraversal  Strategy = "traversal"  // Structural depth-first walk
	StrategyAggressive Strategy = "aggressive" // Block scan with terminology filter
	StrategyBody       Strategy = "body"       // Whole visible body
	StrategySite       Strategy = "site"       // Site-specific cascade step
)

// ExtractionResult is the text chosen by the extraction chain
type ExtractionResult struct {
	Text           string   `json:"text"`
	SourceStrategy Strategy `json:"source_strategy"`
	Detail         string   `json:"detail,omitempty"` // Selector or site step that matched
	Length         int      `json:"length"`           // Length in characters (runes)
}

// DetectionReason names the classifier test that fired
type DetectionReason string

const (
	DetectedByURL     DetectionReason = "url"
	DetectedByTitle   DetectionReason = "title"
	DetectedByHeading DetectionReason = "heading"
	DetectedByBody    DetectionReason = "body"
	DetectedByDomain  DetectionReason = "domain"
	DetectedByManual  DetectionReason = "manual"
	DetectedBySite    DetectionReason = "site"
	NotDetected       DetectionReason = "none"
)

// Detection records the classifier outcome for a page
type Detection struct {
	Legal   bool            `json:"legal"`
	Reason  DetectionReason `json:"reason"`
	Matches []string        `json:"matches,omitempty"` // Patterns that matched
}

package classify

import (
	"regexp"
	"strings"
)

var legalTerms = []string{
	// basic
	"terms", "conditions", "privacy", "legal", "agreement", "license",
	"copyright", "intellectual property", "disclaimer", "warranty",
	"liability", "indemnification", "governing law", "jurisdiction",
	"arbitration", "dispute", "termination", "refund", "prohibited",
	"clause", "policy", "cookies", "gdpr", "ccpa", "personal data",
	"consent", "opt-out", "third party", "service provider", "processor",

	// concepts
	"rights", "obligations", "confidential", "compliance", "violation",
	"restriction", "limitation", "waiver", "severability", "binding",
	"modification", "cancellation", "proprietary",
	"ownership", "assignment", "transfer", "remedies", "damages",
	"notification", "disclosure", "representation", "warranties",

	// phrases
	"by accessing", "by using", "you agree to", "you consent to",
	"govern your use", "at its sole discretion", "accept these terms",
	"lawful purpose", "subject to change", "irrevocable", "perpetual",
	"worldwide", "non-exclusive", "royalty-free", "transferable",
	"applicable laws", "you represent that", "you warrant that",

	// privacy
	"data subject", "data protection", "information we collect",
	"how we use", "tracking technologies", "third-party services",
	"information sharing", "data retention", "data security",
	"your choices", "opt-out rights", "access rights",
}

// Structural patterns run against the original text so that the
// capitalized-heading pattern can still see upper case.
var legalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)section\s+\d+(\.\d+)?`),
	regexp.MustCompile(`(?i)article\s+\d+(\.\d+)?`),
	regexp.MustCompile(`(?m)^\d+\.\s+[A-Z]`),
	regexp.MustCompile(`(?m)^\d+\.\d+\.\s+`),
	regexp.MustCompile(`(?i)\([a-z]\)\s+`),
	regexp.MustCompile(`(?i)last\s+updated\s+on`),
	regexp.MustCompile(`(?i)last\s+modified\s+on`),
	regexp.MustCompile(`(?i)effective\s+date`),
	regexp.MustCompile(`©\s*\d{4}`),
}

// ContainsLegalTerminology reports whether text uses at least one term or
// structural pattern from the legal terminology set.
func ContainsLegalTerminology(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, term := range legalTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}

	for _, pattern := range legalPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

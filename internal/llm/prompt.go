package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/legalens/internal/model"
)

const (
	// MaxDocumentChars is how much of the document is sent to a model
	MaxDocumentChars = 15000

	// TruncationNotice is appended when the document was cut
	TruncationNotice = "... (document truncated due to length)"

	systemPrompt = "You are a legal expert specializing in analyzing and simplifying complex legal documents for the average person."
)

// Style tunes the tone of the requested summary
type Style struct {
	Language string // simple, standard, detailed
	Length   string // short, medium, long
}

const basePrompt = `I need help analyzing this legal document:

%s

Based on the above document, please provide:

1. A comprehensive summary of the main points covering ALL important aspects that a user must know. %s

2. A list of 5-7 key points from the document, each with a risk level (low, medium, or high) indicating how potentially concerning each point is for the average user.

3. A list of 3-5 potential risks or concerns that users should be aware of.

4. Letter grades (A to E, with A being best) for each of these aspects of the document:
   - Overall: How fair and user-friendly is this document overall?
   - Transparency: How clear and understandable is the document?
   - Complexity: How complex or simple is the language? (A = very simple)
   - Fairness: How balanced are the rights and obligations?
   - Privacy: How well does it protect user privacy?
   - Risks: What is the overall risk level for users? (A = low risk)

5. Complexity analysis:
   - A complexity score from 0-100 (where 0 is extremely simple and 100 is extremely complex)
   - A list of 5-10 legal jargon terms found in the document, each with a complexity level (simple, moderate, complex)

Format your response in JSON as follows:
{
  "summary": "Summary text here...",
  "keyPoints": [
    {"text": "Point 1", "riskLevel": "low/medium/high"},
    {"text": "Point 2", "riskLevel": "low/medium/high"}
  ],
  "risks": ["Risk 1", "Risk 2"],
  "grades": {
    "overall": "A/B/C/D/E",
    "transparency": "A/B/C/D/E",
    "complexity": "A/B/C/D/E",
    "fairness": "A/B/C/D/E",
    "privacy": "A/B/C/D/E",
    "risks": "A/B/C/D/E"
  },
  "complexity": {
    "score": 75,
    "terms": [
      {"term": "Legal term 1", "level": "simple/moderate/complex"},
      {"term": "Legal term 2", "level": "simple/moderate/complex"}
    ]
  }
}

Important: Return ONLY the JSON, with no other text or explanation.`

// Each backend has its own habit of wrapping JSON in prose or fences.
var promptSuffixes = map[model.ProviderID]string{
	model.ProviderOpenAI:    "IMPORTANT: Your response must be ONLY valid JSON that can be parsed with JSON.parse(). DO NOT include backticks, code blocks, or any text outside the JSON.",
	model.ProviderGemini:    "CRITICAL: RESPOND WITH ONLY THE JSON OBJECT, NOTHING ELSE. NO MARKDOWN FORMATTING. NO CODE BLOCKS. NO BACKTICKS. NO EXPLANATION TEXT BEFORE OR AFTER THE JSON.",
	model.ProviderAnthropic: "VERY IMPORTANT: Your response must be a valid JSON object that can be parsed with JSON.parse(). Do not include any text before or after the JSON. Do not use markdown code blocks. The response should start with '{' and end with '}' with nothing else.",
	model.ProviderOllama:    "Respond with the JSON object only.",
}

// BuildPrompt renders the analysis prompt for a provider
func BuildPrompt(document string, provider model.ProviderID, style Style) string {
	prompt := fmt.Sprintf(basePrompt, TruncateDocument(document), summaryGuidance(style))
	if suffix, ok := promptSuffixes[provider]; ok {
		prompt += "\n\n" + suffix
	}
	return prompt
}

// TruncateDocument keeps the first MaxDocumentChars characters and marks the cut
func TruncateDocument(document string) string {
	runes := []rune(document)
	if len(runes) <= MaxDocumentChars {
		return document
	}
	return string(runes[:MaxDocumentChars]) + TruncationNotice
}

func summaryGuidance(style Style) string {
	var b strings.Builder
	b.WriteString("The summary can be as long as needed to include all relevant information.")

	switch style.Language {
	case "standard":
		b.WriteString(" Use plain language suitable for an adult reader.")
	case "detailed":
		b.WriteString(" Keep important legal terms and explain them briefly.")
	default:
		b.WriteString(" Use simple, everyday language that a 5th grader could understand.")
	}

	switch style.Length {
	case "short":
		b.WriteString(" Keep it to one short paragraph.")
	case "long":
		b.WriteString(" Cover every section of the document.")
	}
	return b.String()
}

package llm

import "strings"

const sampleReply = `{
  "summary": "You give the service a licence to your content.",
  "keyPoints": [
    {"text": "Content licence is perpetual", "riskLevel": "high"},
    {"text": "You can delete your account", "riskLevel": "low"}
  ],
  "risks": ["Arbitration clause waives class actions"],
  "grades": {"overall": "C", "transparency": "B", "complexity": "D", "fairness": "C", "privacy": "D", "risks": "C"},
  "complexity": {"score": 72, "terms": [{"term": "indemnify", "level": "complex"}]}
}`

var testOpenAIKey = "sk-" + strings.Repeat("a", 40)

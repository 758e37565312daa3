package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/legalens/internal/model"
)

const footer = "Generated by legalens. This is an automated reading of the document, not legal advice."

// Renderer writes reports as JSON, Markdown or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(report)), 0o644)
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- Source: %s\n", report.SourceURL)
	fmt.Fprintf(&b, "- Analyzed: %s\n", report.FetchedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- Detected as legal: %t (%s)\n", report.Detection.Legal, report.Detection.Reason)
	if report.Extraction != nil {
		fmt.Fprintf(&b, "- Extracted by: %s (%d characters)\n", strategyLabel(report.Extraction), report.Extraction.Length)
	}
	b.WriteString("\n")

	a := report.Analysis
	if a == nil {
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "> %s\n", w)
		}
		r.writeFooter(&b)
		return b.String()
	}

	b.WriteString("## Summary\n\n")
	b.WriteString(a.Summary)
	b.WriteString("\n\n## Grades\n\n| Category | Grade |\n|---|---|\n")
	for _, c := range model.GradeCategories {
		fmt.Fprintf(&b, "| %s | %s |\n", title(string(c)), a.Grades[c])
	}

	if len(a.KeyPoints) > 0 {
		b.WriteString("\n## Key points\n\n")
		for _, kp := range a.KeyPoints {
			fmt.Fprintf(&b, "- **%s risk**: %s\n", kp.RiskLevel, kp.Text)
		}
	}

	if len(a.Risks) > 0 {
		b.WriteString("\n## Risks\n\n")
		for _, risk := range a.Risks {
			fmt.Fprintf(&b, "- %s\n", risk)
		}
	}

	b.WriteString("\n## Complexity\n\n")
	if a.Complexity.Score != nil {
		fmt.Fprintf(&b, "Score: %d/100\n", *a.Complexity.Score)
	}
	if len(a.Complexity.Terms) > 0 {
		b.WriteString("\n| Term | Level |\n|---|---|\n")
		for _, t := range a.Complexity.Terms {
			fmt.Fprintf(&b, "| %s | %s |\n", t.Term, t.Level)
		}
	}

	b.WriteString("\n## Models\n\n")
	fmt.Fprintf(&b, "Contributors: %s\n", joinIDs(a.ModelContributions))
	for _, f := range a.Failures {
		fmt.Fprintf(&b, "- %s failed: %s\n", f.Provider, f.Reason)
	}
	if report.Cached {
		b.WriteString("\n_Served from cache._\n")
	}

	r.writeFooter(&b)
	return b.String()
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", report.Subject)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Legal document: %t (%s)\n", report.Detection.Legal, report.Detection.Reason)

	if report.Extraction == nil {
		fmt.Fprintf(w, "  ✗ %s\n\n", WarnNoDocument)
		return
	}
	fmt.Fprintf(w, "  Extracted: %d characters via %s\n", report.Extraction.Length, strategyLabel(report.Extraction))

	a := report.Analysis
	if a == nil {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "  Overall grade: %s", a.Grades[model.CategoryOverall])
	if a.Complexity.Score != nil {
		fmt.Fprintf(w, "   Complexity: %d/100", *a.Complexity.Score)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Models: %s", joinIDs(a.ModelContributions))
	if report.Cached {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)

	for _, kp := range a.KeyPoints {
		mark := "•"
		if kp.RiskLevel == model.RiskHigh {
			mark = "!"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, kp.Text)
	}
	for _, f := range a.Failures {
		fmt.Fprintf(w, "  ✗ %s: %s\n", f.Provider, f.Reason)
	}
	fmt.Fprintln(w)
}

func (r *Renderer) writeFooter(b *strings.Builder) {
	if r.includeFooter {
		fmt.Fprintf(b, "\n---\n%s\n", footer)
	}
}

func strategyLabel(e *model.ExtractionResult) string {
	if e.Detail == "" {
		return string(e.SourceStrategy)
	}
	return fmt.Sprintf("%s (%s)", e.SourceStrategy, e.Detail)
}

func joinIDs(ids []model.ProviderID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, string(id))
	}
	return strings.Join(parts, ", ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

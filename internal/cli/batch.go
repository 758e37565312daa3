package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legalens/internal/llm"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/ppiankov/legalens/internal/pipeline"
	"github.com/ppiankov/legalens/internal/worker"
)

const maxFilenameLen = 100

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchManual  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many URLs from a file in parallel",
	Long: `Batch analyzes every URL listed in a file (one per line, # for comments).
Requests to the same host are paced by the rate limiter, and one JSON and
one Markdown report is written per URL.

Example:
  legalens batch urls.txt
  legalens batch urls.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./legalens-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchManual, "manual", false, "treat every page as legal")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the report cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringSliceVar(&providerNames, "providers", nil, "only use these providers")
	batchCmd.Flags().StringSliceVar(&excludeNames, "exclude", nil, "drop these providers from fused reports unless nothing else succeeds")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	backends, err := llm.BackendsFromConfig(cfg, splitList(providerNames))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  legalens batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Providers:    %d\n", len(backends))
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, backends, pipeline.Options{Manual: batchManual, NoCache: noCache})
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := p.Renderer()
	for i, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}

		report := result.Report
		base := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(report.Subject))
		if err := renderer.RenderJSON(report, filepath.Join(outputDir, base+".json")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.URL, err)
			continue
		}

		if report.Extraction == nil {
			fmt.Fprintf(os.Stderr, "⚠️  %s: %s\n", result.URL, pipeline.WarnNoDocument)
			continue
		}

		if err := renderer.RenderMarkdown(report, filepath.Join(outputDir, base+".md")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.URL, err)
			continue
		}

		grade := "-"
		if report.Analysis != nil {
			grade = string(report.Analysis.Grades[model.CategoryOverall])
		}
		fmt.Fprintf(os.Stderr, "✓ %s (overall: %s, %v)\n", report.Subject, grade, result.Duration.Round(time.Millisecond))
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:        %d URLs\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Analyzed:     %d\n", summary.Analyzed)
	fmt.Fprintf(os.Stderr, "  No document:  %d\n", summary.NoDocument)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
)

// sanitizeFilename turns a report subject into a safe file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")
	if s == "" {
		return "report"
	}

	if r := []rune(s); len(r) > maxFilenameLen {
		s = string(r[:maxFilenameLen])
	}
	return s
}

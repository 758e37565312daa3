package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legalens/internal/pipeline"
)

var (
	detectTimeout time.Duration
	detectManual  bool
	detectJSON    bool
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect <url|file>",
	Short: "Check whether a page contains legal text, without calling any LLM",
	Long: `Detect runs the legal-document classifier and the extraction chain only.
It reports which test recognized the page and which strategy found the text.

Example:
  legalens detect https://example.com/terms
  legalens detect ./page.html --json
  legalens detect - --source-url https://example.com/terms < page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().DurationVar(&detectTimeout, "timeout", time.Minute, "overall timeout")
	detectCmd.Flags().BoolVar(&detectManual, "manual", false, "skip the classifier and extract anyway")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print the result as JSON")
	detectCmd.Flags().StringVar(&sourceURL, "source-url", "", "page address when reading HTML from stdin")
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, nil, pipeline.Options{Manual: detectManual, NoCache: true})

	report, err := runTarget(ctx, p, args[0])
	if err != nil {
		return fmt.Errorf("detect failed: %w", err)
	}

	if detectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	p.Renderer().RenderSummary(os.Stdout, report)
	if len(report.Detection.Matches) > 0 {
		fmt.Printf("  Matched: %v\n\n", report.Detection.Matches)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/legalens/internal/llm"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/ppiankov/legalens/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	manual        bool
	noCache       bool
	noFooter      bool
	insecureTLS   bool
	providerNames []string
	excludeNames  []string
	languageStyle string
	summaryLength string
	sourceURL     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url|file>",
	Short: "Find the legal text on a page and grade it",
	Long: `Analyze fetches a web page (or reads a saved HTML file), locates the legal
document in it, sends the text to every configured LLM provider in parallel
and fuses their answers into one report.

Providers without a credential are skipped. Credentials are read from
OPENAI_API_KEY, GEMINI_API_KEY and ANTHROPIC_API_KEY.

Example:
  legalens analyze https://example.com/terms
  legalens analyze ./saved-signup.html --manual
  curl -s https://example.com/signup | legalens analyze - --source-url https://example.com/signup
  legalens analyze https://example.com/privacy --json report.json --md report.md
  legalens analyze https://example.com/terms --providers openai,anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall timeout")
	analyzeCmd.Flags().BoolVar(&manual, "manual", false, "treat the page as legal even if detection disagrees")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the report cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	analyzeCmd.Flags().StringSliceVar(&providerNames, "providers", nil, "only use these providers (openai, gemini, anthropic, ollama)")
	analyzeCmd.Flags().StringSliceVar(&excludeNames, "exclude", nil, "drop these providers from the fused report unless nothing else succeeds")
	analyzeCmd.Flags().StringVar(&languageStyle, "style", "", "summary language style (simple, standard, detailed)")
	analyzeCmd.Flags().StringVar(&summaryLength, "length", "", "summary length (short, medium, long)")
	analyzeCmd.Flags().StringVar(&sourceURL, "source-url", "", "page address when reading HTML from stdin")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)

	backends, err := llm.BackendsFromConfig(cfg, splitList(providerNames))
	if err != nil {
		return err
	}

	ids := make([]string, len(backends))
	for i, b := range backends {
		ids[i] = string(b.Provider.ID())
	}
	log.Debug().Str("target", target).Strs("providers", ids).Dur("timeout", timeout).Msg("analyzing")

	p := pipeline.NewPipeline(cfg, backends, pipeline.Options{Manual: manual, NoCache: noCache})

	report, err := runTarget(ctx, p, target)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func applyAnalyzeFlags(cfg *model.Config) {
	cfg.HTTP.InsecureTLS = cfg.HTTP.InsecureTLS || insecureTLS
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter
	if len(excludeNames) > 0 {
		cfg.Fusion.Exclude = splitList(excludeNames)
	}
	if languageStyle != "" {
		cfg.Output.LanguageStyle = languageStyle
	}
	if summaryLength != "" {
		cfg.Output.SummaryLength = summaryLength
	}
}

// runTarget dispatches to stdin ("-"), a local file or a URL
func runTarget(ctx context.Context, p *pipeline.Pipeline, target string) (*model.Report, error) {
	if target == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return p.AnalyzeHTML(ctx, sourceURL, string(data))
	}
	if isLocalFile(target) {
		return p.AnalyzeFile(ctx, target)
	}

	result, err := p.ScanURL(ctx, target)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

func isLocalFile(target string) bool {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && !info.IsDir()
}

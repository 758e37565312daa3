package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/legalens/internal/cache"
	"github.com/ppiankov/legalens/internal/extract"
	"github.com/ppiankov/legalens/internal/extract/adapters"
	"github.com/ppiankov/legalens/internal/fusion"
	"github.com/ppiankov/legalens/internal/llm"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/ppiankov/legalens/internal/util"
)

// WarnNoDocument is attached to reports where extraction found nothing
const WarnNoDocument = "no legal document found on the page"

// Options tune a single pipeline run
type Options struct {
	// Manual treats every page as legal, skipping detection
	Manual bool

	// NoCache bypasses the report cache for reads and writes
	NoCache bool
}

// Pipeline fetches a page, extracts its legal text and runs the fusion engine over it
type Pipeline struct {
	fetcher  *Fetcher
	chain    *extract.Chain
	engine   *fusion.Engine // Nil for detect-only pipelines
	cache    *cache.ReportCache
	renderer *Renderer
	config   *model.Config
	opts     Options
}

// NewPipeline wires a pipeline from configuration. With no backends the
// pipeline only detects and extracts.
func NewPipeline(cfg *model.Config, backends []llm.Backend, opts Options) *Pipeline {
	fetcher := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
	if cfg.HTTP.RespectRobots {
		proxy := util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		fetcher.WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout, proxy))
	}

	chainOpts := []extract.Option{extract.WithThreshold(cfg.Extraction.MinLength)}
	if cfg.Extraction.SiteChains {
		chainOpts = append(chainOpts, extract.WithSites(adapters.NewRegistry()))
	}

	p := &Pipeline{
		fetcher:  fetcher,
		chain:    extract.NewChain(chainOpts...),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
		opts:     opts,
	}

	if len(backends) > 0 {
		p.engine = fusion.NewEngine(backends, fusion.WithExclude(cfg.Fusion.Exclude...))
	}

	if cfg.Cache.Enabled && !opts.NoCache {
		store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		p.cache = cache.NewReportCache(store, cfg.Cache.DiskTTL)
	}

	return p
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// ScanResult contains the complete scan result
type ScanResult struct {
	Report *model.Report
	Error  error
}

// ScanURL fetches rawURL and analyzes it
func (p *Pipeline) ScanURL(ctx context.Context, rawURL string) (*ScanResult, error) {
	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	report, err := p.analyze(ctx, source{
		url:     fetched.FinalURL,
		html:    fetched.HTML,
		subject: fetched.Subject,
		meta:    fetched.Meta,
		loader:  p.fetcher,
	})
	if err != nil {
		return nil, err
	}

	return &ScanResult{Report: report}, nil
}

// CrawlDelay returns the delay rawURL's robots.txt asks for, or zero when
// robots.txt is not consulted
func (p *Pipeline) CrawlDelay(ctx context.Context, rawURL string) time.Duration {
	return p.fetcher.CrawlDelay(ctx, rawURL)
}

// AnalyzeFile analyzes a saved HTML page. Frames are not loaded.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return p.analyze(ctx, source{
		url:     "file://" + filepath.ToSlash(abs),
		html:    string(data),
		subject: filepath.Base(path),
	})
}

// AnalyzeHTML analyzes an HTML document that was obtained elsewhere
func (p *Pipeline) AnalyzeHTML(ctx context.Context, sourceURL, html string) (*model.Report, error) {
	return p.analyze(ctx, source{
		url:     sourceURL,
		html:    html,
		subject: model.SubjectFromURL(sourceURL),
	})
}

type source struct {
	url     string
	html    string
	subject string
	meta    model.FetchMeta
	loader  extract.FrameLoader
}

func (p *Pipeline) analyze(ctx context.Context, src source) (*model.Report, error) {
	page, err := extract.Snapshot(ctx, src.url, src.html, src.loader)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	report := &model.Report{
		ID:        uuid.NewString(),
		Subject:   src.subject,
		SourceURL: src.url,
		FetchedAt: time.Now().UTC(),
		FetchMeta: src.meta,
		Detection: p.chain.Detect(page, p.opts.Manual),
	}
	if title := page.Title(); title != "" {
		report.Subject = title
	}

	extraction, err := p.chain.Extract(page, p.opts.Manual)
	if errors.Is(err, extract.ErrExtractionEmpty) {
		log.Info().Str("url", src.url).Str("reason", string(report.Detection.Reason)).Msg(WarnNoDocument)
		report.Warnings = append(report.Warnings, WarnNoDocument)
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	report.Extraction = extraction

	log.Debug().
		Str("url", src.url).
		Str("strategy", string(extraction.SourceStrategy)).
		Str("detail", extraction.Detail).
		Int("length", extraction.Length).
		Msg("extracted legal text")

	if p.engine == nil {
		return report, nil
	}

	key := cache.ReportKey(extraction.Text, p.engine.Fingerprint(),
		p.config.Output.LanguageStyle, p.config.Output.SummaryLength)
	if p.cache != nil {
		if cached, ok := p.cache.Get(key); ok {
			log.Debug().Str("url", src.url).Msg("report cache hit")
			report.Analysis = cached
			report.Cached = true
			return report, nil
		}
	}

	fused, err := p.engine.Analyze(ctx, extraction.Text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	report.Analysis = fused

	for _, f := range fused.Failures {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s failed: %s", f.Provider, f.Reason))
	}

	// Partial results are not cached so a later run can fill the gaps.
	if p.cache != nil && len(fused.Failures) == 0 {
		if err := p.cache.Put(key, fused); err != nil {
			log.Warn().Err(err).Msg("failed to cache report")
		}
	}

	return report, nil
}

// RenderReport writes the requested outputs and prints a summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		log.Info().Str("path", jsonPath).Msg("wrote JSON")
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		log.Info().Str("path", mdPath).Msg("wrote Markdown")
	}

	p.renderer.RenderSummary(os.Stdout, report)
	return nil
}

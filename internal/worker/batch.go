package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/legalens/internal/model"
	"github.com/ppiankov/legalens/internal/pipeline"
)

var errNotRun = errors.New("scan was not run")

// Scanner analyzes one URL
type Scanner interface {
	ScanURL(ctx context.Context, url string) (*pipeline.ScanResult, error)
}

// CrawlDelayer is implemented by scanners that know a site's requested
// crawl delay
type CrawlDelayer interface {
	CrawlDelay(ctx context.Context, url string) time.Duration
}

// ScanJob analyzes one URL of a batch
type ScanJob struct {
	URL     string
	Scanner Scanner
	Limiter *Limiter
}

// Execute paces the request, then scans
func (j *ScanJob) Execute(ctx context.Context) Result {
	start := time.Now()

	if j.Limiter != nil {
		if d, ok := j.Scanner.(CrawlDelayer); ok {
			if err := j.Limiter.ApplyCrawlDelay(j.URL, d.CrawlDelay(ctx, j.URL)); err != nil {
				log.Debug().Err(err).Str("url", j.URL).Msg("crawl delay not applied")
			}
		}
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			return &ScanResult{URL: j.URL, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	result, err := j.Scanner.ScanURL(ctx, j.URL)
	if err != nil {
		log.Debug().Err(err).Str("url", j.URL).Msg("scan failed")
		return &ScanResult{URL: j.URL, Error: err, Duration: time.Since(start)}
	}
	return &ScanResult{URL: j.URL, Report: result.Report, Duration: time.Since(start)}
}

// ScanResult is the outcome for one URL of a batch
type ScanResult struct {
	URL      string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Error
}

// BatchSummary counts outcomes across a batch
type BatchSummary struct {
	Total      int
	Analyzed   int
	NoDocument int
	Failed     int
}

// Summarize tallies results
func Summarize(results []*ScanResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != nil:
			s.Failed++
		case r.Report == nil || r.Report.Extraction == nil:
			s.NoDocument++
		default:
			s.Analyzed++
		}
	}
	return s
}

// BatchProcessor scans many URLs concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A positive requestsPerSecond
// paces requests per host.
func NewBatchProcessor(scanner Scanner, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
	}
	if requestsPerSecond > 0 {
		b.limiter = NewLimiter(requestsPerSecond, burst)
	}
	return b
}

// ProcessURLs scans urls and returns one result per URL, in input order.
// URLs left unscanned by cancellation carry the context error.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScanResult {
	if len(urls) == 0 {
		return []*ScanResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, u := range urls {
		pool.Submit(&ScanJob{URL: u, Scanner: b.scanner, Limiter: b.limiter})
	}

	results := pool.Wait()

	scanResults := make([]*ScanResult, len(urls))
	for i := range urls {
		var result Result
		if i < len(results) {
			result = results[i]
		}
		if result == nil {
			err := ctx.Err()
			if err == nil {
				err = errNotRun
			}
			scanResults[i] = &ScanResult{URL: urls[i], Error: err}
			continue
		}
		scanResults[i] = result.(*ScanResult)
	}
	return scanResults
}

// ProcessFile reads URLs from a file and scans them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads one URL per line, skipping blanks, comments and duplicates
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}

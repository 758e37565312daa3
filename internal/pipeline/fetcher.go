package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppiankov/legalens/internal/model"
	"github.com/ppiankov/legalens/internal/util"
)

const (
	maxRedirects     = 5
	maxFetchAttempts = 3
)

// ErrCrossOriginRedirect is returned when a frame redirects off its origin
var ErrCrossOriginRedirect = errors.New("cross-origin redirect")

// StatusError reports a non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}

// Temporary reports whether the server may answer differently on retry
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// fetchSleepFunc is swapped out in tests
var fetchSleepFunc = time.Sleep

// Fetcher downloads pages and same-origin frames
type Fetcher struct {
	httpClient  *http.Client
	frameClient *http.Client // Refuses redirects that leave the frame's origin
	userAgent   string
	maxBytes   int64
	robots     *util.RobotsChecker
}

// NewFetcher creates a Fetcher. Proxy settings fall back to the environment
// when empty.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
	}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: limitRedirects,
		},
		frameClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if err := limitRedirects(req, via); err != nil {
					return err
				}
				if origin := via[0].URL; req.URL.Scheme != origin.Scheme || req.URL.Host != origin.Host {
					return fmt.Errorf("%w: %s redirected to %s", ErrCrossOriginRedirect, origin.Host, req.URL.Host)
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}

// WithRobots makes every fetch honour robots.txt
func (f *Fetcher) WithRobots(r *util.RobotsChecker) *Fetcher {
	f.robots = r
	return f
}

// CrawlDelay returns the robots.txt crawl delay for rawURL's host
func (f *Fetcher) CrawlDelay(ctx context.Context, rawURL string) time.Duration {
	if f.robots == nil {
		return 0
	}
	_, delay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return 0
	}
	return delay
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string
	Meta     model.FetchMeta
	Subject  string
	FinalURL string
}

// Fetch retrieves rawURL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	return f.fetch(ctx, f.httpClient, rawURL)
}

func (f *Fetcher) fetch(ctx context.Context, client *http.Client, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		if err := f.robots.Check(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}
	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	return &FetchResult{
		HTML:     string(body),
		Meta:     meta,
		Subject:  model.SubjectFromURL(finalURL),
		FinalURL: finalURL,
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, dropped
// connections) with a doubling backoff starting at one second
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	delay := time.Second

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxFetchAttempts || !isRetryableFetchError(err) {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Debug().Err(err).Str("url", rawURL).Int("attempt", attempt+1).Msg("retrying fetch")
		fetchSleepFunc(delay)
		delay *= 2
	}

	return nil, lastErr
}

// LoadFrame fetches an iframe document for the extraction snapshot. The
// frame may redirect only within its own scheme and host.
func (f *Fetcher) LoadFrame(ctx context.Context, frameURL string) (string, error) {
	result, err := f.fetch(ctx, f.frameClient, frameURL)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, util.ErrDisallowed) {
		return false
	}

	var status *StatusError
	if errors.As(err, &status) {
		return status.Temporary()
	}

	// Only transport failures; body read errors and bad requests are final.
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	if errors.Is(err, ErrCrossOriginRedirect) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

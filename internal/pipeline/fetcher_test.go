package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/ppiankov/legalens/internal/util"
)

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	// Override sleep for fast tests
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	// 404 is not retryable, so should fail immediately
	if got := err.Error(); got != "unexpected status: 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	var status *StatusError
	if !errors.As(err, &status) || status.StatusCode != http.StatusNotFound {
		t.Errorf("Expected *StatusError with 404, got %#v", err)
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func transportError(err error) error {
	return fmt.Errorf("fetch: %w", &url.Error{Op: "Get", URL: "https://example.com/terms", Err: err})
}

func dialError(errno syscall.Errno) error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", errno)}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{StatusCode: 503, Status: "503 Service Unavailable"}, true},
		{"500", &StatusError{StatusCode: 500, Status: "500 Internal Server Error"}, true},
		{"502 wrapped", fmt.Errorf("page: %w", &StatusError{StatusCode: 502, Status: "502 Bad Gateway"}), true},
		{"429", &StatusError{StatusCode: 429, Status: "429 Too Many Requests"}, true},
		{"404", &StatusError{StatusCode: 404, Status: "404 Not Found"}, false},
		{"403", &StatusError{StatusCode: 403, Status: "403 Forbidden"}, false},
		{"401", &StatusError{StatusCode: 401, Status: "401 Unauthorized"}, false},
		{"connection refused", transportError(dialError(syscall.ECONNREFUSED)), true},
		{"connection reset", transportError(dialError(syscall.ECONNRESET)), true},
		{"server closed connection", transportError(io.EOF), true},
		{"dns timeout", transportError(&net.DNSError{Err: "i/o timeout", Name: "example.com", IsTimeout: true}), true},
		{"dns not found", transportError(&net.DNSError{Err: "no such host", Name: "example.com", IsNotFound: true}), false},
		{"redirect limit", transportError(errors.New("stopped after 5 redirects")), false},
		{"cross-origin frame", transportError(fmt.Errorf("%w: a to b", ErrCrossOriginRedirect)), false},
		{"canceled", transportError(context.Canceled), false},
		{"robots", fmt.Errorf("check: %w", util.ErrDisallowed), false},
		{"read body", fmt.Errorf("read body: %w", io.ErrUnexpectedEOF), false},
		{"message only", errors.New("fetch: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableFetchError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}

func TestFetcher_LoadFrameAndSubject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		_, _ = fmt.Fprint(w, "<html><body>frame</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")

	html, err := fetcher.LoadFrame(context.Background(), server.URL+"/embed/terms-of-use.html")
	if err != nil {
		t.Fatalf("LoadFrame failed: %v", err)
	}
	if html != "<html><body>frame</body></html>" {
		t.Errorf("Unexpected frame HTML: %s", html)
	}

	result, err := fetcher.Fetch(context.Background(), server.URL+"/legal/privacy-policy")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.HasSuffix(result.Subject, "privacy policy") {
		t.Errorf("Unexpected subject %q", result.Subject)
	}
}

func TestFetcher_LoadFrameRejectsCrossOriginRedirect(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html><body>elsewhere</body></html>")
	}))
	defer other.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed/away":
			http.Redirect(w, r, other.URL+"/terms", http.StatusFound)
		case "/embed/moved":
			http.Redirect(w, r, "/embed/terms", http.StatusMovedPermanently)
		default:
			_, _ = fmt.Fprint(w, "<html><body>frame</body></html>")
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")

	_, err := fetcher.LoadFrame(context.Background(), server.URL+"/embed/away")
	if !errors.Is(err, ErrCrossOriginRedirect) {
		t.Fatalf("Expected ErrCrossOriginRedirect, got %v", err)
	}

	html, err := fetcher.LoadFrame(context.Background(), server.URL+"/embed/moved")
	if err != nil {
		t.Fatalf("Same-origin redirect failed: %v", err)
	}
	if html != "<html><body>frame</body></html>" {
		t.Errorf("Unexpected frame HTML: %s", html)
	}

	// Top-level pages still follow redirects to other hosts.
	result, err := fetcher.Fetch(context.Background(), server.URL+"/embed/away")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.HTML != "<html><body>elsewhere</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
}

func TestFetcher_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 10, false, "", "", "")
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.HTML) != 10 {
		t.Errorf("Expected body capped at 10 bytes, got %d", len(result.HTML))
	}
}

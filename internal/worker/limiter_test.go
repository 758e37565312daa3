package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != defaultBurst {
		t.Errorf("expected default burst %d for negative input, got %d", defaultBurst, l2.defaultBurst)
	}

	l3 := NewLimiter(0, 1)
	if l3.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate for zero input, got %v", l3.defaultRate)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/terms"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "http://other.example.org/privacy"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitPaces(t *testing.T) {
	limiter := NewLimiter(20, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "http://example.com"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("expected pacing of about 100ms, got %v", elapsed)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := limiter.Wait(ctx, "http://example.com"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cancel()
	if err := limiter.Wait(ctx, "http://example.com"); err == nil {
		t.Error("expected error from cancelled wait")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://example.com"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 is spent
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// www. and case share the same bucket
	if limiter.Allow("https://WWW.Example.com/terms") {
		t.Errorf("expected www host to share the bucket")
	}

	if !limiter.Allow("http://other.com") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.com"

	limiter.SetHostRate("www."+host, 0.1, 1)

	if !limiter.Allow("http://" + host) {
		t.Errorf("first request should pass")
	}

	if limiter.Allow("http://" + host) {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("http://fast.com") {
		t.Errorf("other host should pass")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 1)

	if limiter.Allow("/relative/path") {
		t.Error("expected Allow to refuse a URL without host")
	}
	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestHostKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com/foo", "example.com"},
		{"https://www.Example.com:8443/terms", "example.com"},
		{"https://legal.example.com", "legal.example.com"},
	}

	for _, tt := range tests {
		got, err := hostKey(tt.url)
		if err != nil {
			t.Fatalf("hostKey(%q) failed: %v", tt.url, err)
		}
		if got != tt.want {
			t.Errorf("hostKey(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}

	if _, err := hostKey("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
	if _, err := hostKey("mailto:legal@example.com"); err == nil {
		t.Errorf("expected error for URL without host")
	}
}

func TestLimiter_ApplyCrawlDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	if err := limiter.ApplyCrawlDelay("https://www.example.com/terms", time.Hour); err != nil {
		t.Fatalf("ApplyCrawlDelay failed: %v", err)
	}
	if err := limiter.ApplyCrawlDelay("https://example.com/privacy", time.Second); err != nil {
		t.Fatalf("ApplyCrawlDelay failed: %v", err)
	}

	if got := limiter.forHost("example.com").Limit(); got != rate.Every(time.Hour) {
		t.Errorf("expected the slower crawl delay to win, got %v", got)
	}

	if err := limiter.ApplyCrawlDelay("https://other.example.org", 0); err != nil {
		t.Errorf("zero delay should be ignored, got %v", err)
	}
	if got := limiter.forHost("other.example.org").Limit(); got != 100 {
		t.Errorf("expected default rate for other host, got %v", got)
	}

	if err := limiter.ApplyCrawlDelay("::invalid", time.Second); err == nil {
		t.Error("expected error for invalid URL")
	}
}

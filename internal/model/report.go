package model

import (
	"net/url"
	"strings"
	"time"
)

// Report is the result of analyzing one page
type Report struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`    // Human-readable name of the page
	SourceURL string    `json:"source_url"` // URL (or file) that was analyzed
	FetchedAt time.Time `json:"fetched_at"`
	FetchMeta FetchMeta `json:"fetch_meta"`

	Detection  Detection         `json:"detection"`
	Extraction *ExtractionResult `json:"extraction,omitempty"` // Nil when no legal text was found
	Analysis   *FusedReport      `json:"analysis,omitempty"`   // Nil for detect-only runs

	Cached   bool     `json:"cached"`
	Warnings []string `json:"warnings,omitempty"`
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// SubjectFromURL derives a subject from the last path segment of a URL
func SubjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	last = strings.NewReplacer("_", " ", "-", " ").Replace(last)

	return parsed.Host + " " + last
}

package extract

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/legalens/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// FrameLoader fetches the HTML of an embedded frame
type FrameLoader interface {
	LoadFrame(ctx context.Context, frameURL string) (string, error)
}

// Page is an immutable snapshot of a parsed HTML document. Derived values
// (visible text, visibility) are memoized, so a Page is safe for concurrent
// reads but is never modified after Snapshot returns.
type Page struct {
	url    *url.URL
	rawURL string
	doc    *goquery.Document
	frames map[*html.Node]*Page

	mu      sync.Mutex
	texts   map[*html.Node]string
	visible map[*html.Node]bool
}

// NewPage parses htmlContent without loading any frames
func NewPage(rawURL, htmlContent string) (*Page, error) {
	return Snapshot(context.Background(), rawURL, htmlContent, nil)
}

// Snapshot parses htmlContent and, when loader is set, loads same-origin
// iframes so the selector cascade can read them. Frames that fail to load
// are skipped.
func Snapshot(ctx context.Context, rawURL, htmlContent string, loader FrameLoader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	p := newPage(rawURL, doc)
	if loader != nil && p.url != nil {
		p.loadFrames(ctx, loader)
	}
	return p, nil
}

func newPage(rawURL string, doc *goquery.Document) *Page {
	p := &Page{
		rawURL:  rawURL,
		doc:     doc,
		frames:  make(map[*html.Node]*Page),
		texts:   make(map[*html.Node]string),
		visible: make(map[*html.Node]bool),
	}
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		p.url = parsed
	}
	return p
}

func (p *Page) loadFrames(ctx context.Context, loader FrameLoader) {
	p.doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		frameURL, ok := p.sameOrigin(src)
		if !ok {
			log.Debug().Str("src", src).Msg("skipping cross-origin frame")
			return
		}

		content, err := loader.LoadFrame(ctx, frameURL)
		if err != nil {
			log.Debug().Err(err).Str("frame", frameURL).Msg("frame not loaded")
			return
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err != nil {
			return
		}
		p.frames[s.Get(0)] = newPage(frameURL, doc)
	})
}

// sameOrigin resolves src against the page URL and reports whether it
// shares scheme and host with the page.
func (p *Page) sameOrigin(src string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil || src == "" {
		return "", false
	}
	resolved := p.url.ResolveReference(ref)
	if resolved.Scheme != p.url.Scheme || resolved.Host != p.url.Host {
		return "", false
	}
	return resolved.String(), true
}

// URL returns the page address
func (p *Page) URL() string {
	return p.rawURL
}

// Document exposes the parsed document for selector queries
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Frame returns the loaded document for an iframe node, if any
func (p *Page) Frame(n *html.Node) (*Page, bool) {
	f, ok := p.frames[n]
	return f, ok
}

// Body returns the body element
func (p *Page) Body() *html.Node {
	if body := p.doc.Find("body").First(); body.Length() > 0 {
		return body.Get(0)
	}
	return p.doc.Get(0)
}

// Title returns the trimmed document title
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// BodyText returns the visible text of the whole body
func (p *Page) BodyText() string {
	return p.Text(p.Body())
}

// Signal builds the classifier input for this page
func (p *Page) Signal() model.PageSignal {
	var headings []string
	p.doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := p.Text(s.Get(0)); text != "" {
			headings = append(headings, text)
		}
	})

	return model.PageSignal{
		URL:      p.rawURL,
		Title:    p.Title(),
		Headings: headings,
		BodyText: p.BodyText(),
	}
}

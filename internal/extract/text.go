package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Elements that never render text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"head": true, "title": true, "meta": true, "link": true,
	"iframe": true, "object": true, "embed": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"html": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "summary": true, "table": true,
	"tr": true, "ul": true,
}

var landmarkRoles = map[string]string{
	"nav":    "navigation",
	"header": "banner",
	"footer": "contentinfo",
	"aside":  "complementary",
}

// Text returns the rendered text of n: hidden descendants are dropped,
// block elements start new lines, runs of whitespace collapse and the
// result is trimmed.
func (p *Page) Text(n *html.Node) string {
	if n == nil {
		return ""
	}

	p.mu.Lock()
	if t, ok := p.texts[n]; ok {
		p.mu.Unlock()
		return t
	}
	p.mu.Unlock()

	var b strings.Builder
	p.writeText(&b, n, true)
	text := normalizeLines(b.String())

	p.mu.Lock()
	p.texts[n] = text
	p.mu.Unlock()
	return text
}

func (p *Page) writeText(b *strings.Builder, n *html.Node, root bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.Map(collapseBreak, n.Data))
		return
	case html.ElementNode:
		if !root && hiddenSelf(n) {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.writeText(b, c, false)
	}
	if block {
		b.WriteByte('\n')
	} else if n.Data == "td" || n.Data == "th" {
		b.WriteByte(' ')
	}
}

// Source line breaks are plain whitespace; only elements start new lines.
func collapseBreak(r rune) rune {
	if r == '\n' || r == '\r' || r == '\t' || r == '\f' {
		return ' '
	}
	return r
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Visible reports whether n and all of its ancestors render
func (p *Page) Visible(n *html.Node) bool {
	if n == nil {
		return false
	}

	p.mu.Lock()
	v, ok := p.visible[n]
	p.mu.Unlock()
	if ok {
		return v
	}

	v = !hiddenSelf(n)
	if v && n.Parent != nil {
		v = p.Visible(n.Parent)
	}

	p.mu.Lock()
	p.visible[n] = v
	p.mu.Unlock()
	return v
}

// hiddenSelf approximates computed-style hiding from markup: the hidden
// attribute, inline display/visibility/opacity, and zero width or height.
func hiddenSelf(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if skipTags[n.Data] {
		return true
	}
	if _, ok := attr(n, "hidden"); ok {
		return true
	}
	if n.Data == "input" {
		if t, _ := attr(n, "type"); strings.EqualFold(t, "hidden") {
			return true
		}
	}

	style, ok := attr(n, "style")
	if !ok {
		return false
	}
	for prop, val := range parseStyle(style) {
		switch prop {
		case "display":
			if val == "none" {
				return true
			}
		case "visibility":
			if val == "hidden" || val == "collapse" {
				return true
			}
		case "opacity", "width", "height", "max-height", "max-width":
			if isZero(val) {
				return true
			}
		}
	}
	return false
}

func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))
		props[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(val)
	}
	return props
}

func isZero(val string) bool {
	num := strings.TrimRight(val, "abcdefghijklmnopqrstuvwxyz%")
	if num == "" {
		return false
	}
	f, err := strconv.ParseFloat(num, 64)
	return err == nil && f == 0
}

// inLandmark reports whether n or an ancestor is one of the given landmark
// elements, either by tag or by its ARIA role.
func inLandmark(n *html.Node, tags ...string) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		role, _ := attr(cur, "role")
		for _, tag := range tags {
			if cur.Data == tag {
				return true
			}
			if r := landmarkRoles[tag]; r != "" && role == r {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func childElements(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// length counts characters, not bytes
func length(s string) int {
	return utf8.RuneCountInString(s)
}

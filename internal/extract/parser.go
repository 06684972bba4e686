package extract

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Result contains everything extracted from an HTML page.
//
// Design decision: a single parsing pass returns one result struct rather
// than separate Title()/Text() methods. Parsing is the expensive part and
// callers always want several of the fields together.
type Result struct {
	// Title is the page title from the <title> tag.
	Title string

	// Text is the visible text of the page with whitespace collapsed.
	// Script and style contents are excluded.
	Text string

	// Description is the content of the description meta tag
	// (or og:description when no plain description exists).
	Description string

	// FaviconURL is the resolved URL of the page's icon, empty when the
	// page declares none.
	FaviconURL string
}

// Parser extracts information from HTML content.
//
// Design decision: golang.org/x/net/html rather than regex because it
// correctly handles the malformed HTML that is common on the web and
// gives a proper DOM-like structure to walk.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative favicon hrefs.
	baseURL *url.URL
}

// NewParser creates a parser for a page at baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts title, text, description, and
// favicon in a single pass.
func (p *Parser) Parse(content io.Reader) (*Result, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			// Invisible content contributes nothing to the text.
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
			p.processElement(n, result)
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	result.Text = collapseWhitespace(text.String())
	return result, nil
}

// processElement handles a single HTML element node.
func (p *Parser) processElement(n *html.Node, result *Result) {
	switch n.Data {
	case "title":
		if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			result.Title = strings.TrimSpace(n.FirstChild.Data)
		}

	case "meta":
		name := getAttr(n, "name")
		if name == "" {
			name = getAttr(n, "property") // OpenGraph uses property
		}
		content := getAttr(n, "content")
		if content == "" {
			return
		}
		switch name {
		case "description":
			result.Description = content
		case "og:description":
			if result.Description == "" {
				result.Description = content
			}
		}

	case "link":
		if href := getAttr(n, "href"); href != "" {
			rel := strings.ToLower(getAttr(n, "rel"))
			if rel == "icon" || rel == "shortcut icon" || rel == "apple-touch-icon" {
				if result.FaviconURL == "" {
					result.FaviconURL = p.resolveURL(href)
				}
			}
		}
	}
}

// resolveURL resolves a relative URL against the base URL.
// Pseudo-URL schemes and bare fragments resolve to nothing.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(u).String()
}

// collapseWhitespace reduces all whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

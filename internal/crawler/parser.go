package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts the title, visible body text and anchors of an HTML page.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving relative URLs.
	baseURL *url.URL
}

// ParseResult contains the information extracted from an HTML page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Text is the visible text of <body> with whitespace collapsed.
	Text string

	// Links contains the absolute anchor URLs in document order, without
	// duplicates. Mail links are kept so the store can reject them.
	Links []string
}

// NewParser creates a new HTML parser with the given base URL.
// The base URL is used to resolve relative links.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts the title, text and links.
// Malformed markup is tolerated.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	// A <base href> changes how relative links resolve.
	if base := findBase(doc); base != "" {
		if u, err := url.Parse(base); err == nil {
			p.baseURL = p.baseURL.ResolveReference(u)
		}
	}

	result := &ParseResult{Links: make([]string, 0)}
	seen := make(map[string]struct{})
	var text strings.Builder

	var walk func(n *html.Node, inBody bool)
	walk = func(n *html.Node, inBody bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			case "title":
				if result.Title == "" {
					result.Title = strings.Join(strings.Fields(textOf(n)), " ")
				}
				return
			case "body":
				inBody = true
			case "a":
				if link := p.resolveURL(getAttr(n, "href")); link != "" {
					if _, dup := seen[link]; !dup {
						seen[link] = struct{}{}
						result.Links = append(result.Links, link)
					}
				}
			}
		case html.TextNode:
			if inBody {
				text.WriteString(n.Data)
				text.WriteByte(' ')
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)

	result.Text = strings.Join(strings.Fields(text.String()), " ")
	return result, nil
}

// resolveURL resolves a relative URL against the base URL. Script, phone,
// data and fragment-only links return "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:") {
		return ""
	}
	if strings.HasPrefix(lower, "mailto:") {
		return href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// findBase returns the href of the first <base> element.
func findBase(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "base" {
		return getAttr(n, "href")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := findBase(c); href != "" {
			return href
		}
	}
	return ""
}

// textOf returns the concatenated text of n's descendants.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
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

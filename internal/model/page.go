package model

import (
	"mime"
	"strings"
)

// MaxPageSize is the maximum number of body bytes read from a page.
const MaxPageSize = 10 * 1024 * 1024 // 10 MB

// Page is the result of fetching and parsing one HTML page.
type Page struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the media type of the response, without parameters.
	ContentType string

	// Title is the text of the <title> element.
	Title string

	// Text is the visible body text with whitespace collapsed.
	Text string

	// Links holds the absolute URLs of the page's anchors, in document
	// order and without duplicates.
	Links []string
}

// IsHTML reports whether the page content type indicates HTML.
// An empty content type is treated as HTML.
func (p *Page) IsHTML() bool {
	return IsHTMLContentType(p.ContentType)
}

// Synopsis returns the first MaxSynopsisLength characters of the body text.
func (p *Page) Synopsis() string {
	return Truncate(p.Text, MaxSynopsisLength)
}

// ShortTitle returns the title cut to MaxTitleLength characters.
func (p *Page) ShortTitle() string {
	return Truncate(strings.TrimSpace(p.Title), MaxTitleLength)
}

// IsHTMLContentType reports whether a Content-Type header value denotes HTML.
func IsHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

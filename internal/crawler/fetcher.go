package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/woodspider/internal/model"
)

// Fetcher retrieves and parses one HTML page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// HTTPFetcher fetches pages over HTTP and parses them with Parser.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates a fetcher that uses client for all requests.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		maxBodySize: model.MaxPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves pageURL and returns its parsed content.
// Connection failures and non-2xx responses wrap ErrFetch; non-HTML
// responses wrap ErrUnsupportedContent.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrFetch, pageURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !model.IsHTMLContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}

	body := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(body, contentType)
	if err != nil {
		decoded = body
	}

	// Relative links resolve against the final URL after redirects.
	base := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}
	parser, err := NewParser(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	result, err := parser.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrFetch, pageURL, err)
	}

	return &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Title:       result.Title,
		Text:        result.Text,
		Links:       result.Links,
	}, nil
}

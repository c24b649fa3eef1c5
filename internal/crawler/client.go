package crawler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the number of redirects followed before the last
// response is returned as-is.
const maxRedirects = 10

// ClientOptions configures the HTTP client shared by the page fetcher, the
// resource downloader and the robots reader.
type ClientOptions struct {
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration

	// ProxyAddress routes all connections through a SOCKS5 proxy when set
	// ("host:port").
	ProxyAddress string
}

// NewHTTPClient creates the crawler's HTTP client.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:               nil,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: opts.Timeout,
	}

	if opts.ProxyAddress != "" {
		if !isValidProxyAddress(opts.ProxyAddress) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProxyAddress, opts.ProxyAddress)
		}
		socks, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, dialer)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		if cd, ok := socks.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return socks.Dial(network, addr)
			}
		}
	}

	// Some sites require a session cookie set on the first response.
	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// isValidProxyAddress checks that address is "host:port" with a numeric port.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || strings.TrimSpace(host) == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n <= 65535
}

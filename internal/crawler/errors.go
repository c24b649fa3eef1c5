package crawler

import "errors"

var (
	// ErrFetch is returned when a page cannot be retrieved: connection
	// failure, timeout or a non-2xx response.
	ErrFetch = errors.New("fetch failed")

	// ErrUnsupportedContent is returned when a page is not HTML.
	ErrUnsupportedContent = errors.New("unsupported content type")

	// ErrDownload is returned when a resource cannot be downloaded.
	ErrDownload = errors.New("download failed")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not
	// in "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format, expected host:port")

	// ErrNoStore is returned when a Spider must open its own store but has
	// no opener.
	ErrNoStore = errors.New("no frontier store available")
)

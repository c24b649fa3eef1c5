package linkurl

import (
	"path"
	"strings"
)

// resourceExtensions are document types handled by the resource interceptor
// instead of the HTML page fetcher.
var resourceExtensions = []string{
	".pdf", ".txt", ".doc", ".docx", ".rtf", ".csv",
	".pptx", ".ppt", ".xml", ".xlsx", ".xls", ".zip",
}

// multimediaExtensions are never stored in the frontier.
var multimediaExtensions = []string{
	".jpg", ".jpeg", ".gif", ".tif", ".png",
	".ogg", ".m4a", ".mpg", ".mp4", ".mp3", ".mpeg", ".avi",
	".bat", ".exe", ".com",
}

// IsResource reports whether rawURL points at a downloadable document.
func IsResource(rawURL string) bool {
	return hasAnySuffix(rawURL, resourceExtensions)
}

// IsMultimedia reports whether rawURL points at an image, audio, video or
// executable file. Only the path is inspected, so a bare host such as
// "http://example.com" is not mistaken for a .com executable.
func IsMultimedia(rawURL string) bool {
	return hasAnySuffix(rawURL, multimediaExtensions)
}

// ResourceExtensions returns the document extensions without the leading dot.
func ResourceExtensions() []string {
	exts := make([]string, 0, len(resourceExtensions))
	for _, e := range resourceExtensions {
		exts = append(exts, strings.TrimPrefix(e, "."))
	}
	return exts
}

// IsMailto reports whether rawURL is a mail link or carries an e-mail
// address.
func IsMailto(rawURL string) bool {
	return strings.HasPrefix(strings.ToUpper(rawURL), "MAILTO:") || strings.Contains(rawURL, "@")
}

// FileName returns the last path element of rawURL, suitable as the base of
// a local file name. It never returns an empty string.
func FileName(rawURL string) string {
	p := rawURL
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	if idx := strings.Index(p, "://"); idx >= 0 {
		p = p[idx+len("://"):]
	}
	base := path.Base(p)
	if base == "." || base == "/" || base == "" {
		return "resource"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
}

func hasAnySuffix(rawURL string, exts []string) bool {
	p := strings.TrimPrefix(rawURL, RootOf(rawURL))
	if p == "" {
		return false
	}
	lower := strings.ToLower(p)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

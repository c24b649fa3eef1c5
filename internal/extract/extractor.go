package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxFileSize is the largest document that is read into memory.
const DefaultMaxFileSize = 50 * 1024 * 1024

// maxArchiveDepth limits how deep nested archives are opened.
const maxArchiveDepth = 2

// minPrintableRun is the shortest run of printable characters kept from a
// legacy binary document.
const minPrintableRun = 4

// ErrUnsupportedFormat is returned for file types the extractor cannot read.
var ErrUnsupportedFormat = errors.New("unsupported document format")

var (
	repeatedSpaceRegex = regexp.MustCompile(`\s+`)
	rtfControlRegex    = regexp.MustCompile(`\\[a-zA-Z]+-?\d* ?|\\[^a-zA-Z]|[{}]`)
	slideNameRegex     = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)
	sheetNameRegex     = regexp.MustCompile(`^xl/worksheets/sheet\d+\.xml$`)
)

// Extractor reads plain text from document files.
type Extractor struct {
	maxFileSize int64
	policyPool  sync.Pool
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxFileSize sets the largest file that is read. Non-positive values
// are ignored.
func WithMaxFileSize(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxFileSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxFileSize: DefaultMaxFileSize,
		policyPool: sync.Pool{
			New: func() any {
				return bluemonday.StrictPolicy()
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Supported reports whether the extractor understands the file extension of
// name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".csv", ".doc", ".docx", ".rtf", ".ppt", ".pptx",
		".xls", ".xlsx", ".xml", ".html", ".htm", ".zip":
		return true
	}
	return false
}

// Extract returns the text content of the file at filePath with whitespace
// collapsed. The format is chosen by file extension.
func (e *Extractor) Extract(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath) //nolint:gosec // path is built by the crawler
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, e.maxFileSize))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	text, err := e.extractBytes(ctx, filePath, data, 0)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}
	return collapse(text), nil
}

func (e *Extractor) extractBytes(ctx context.Context, name string, data []byte, depth int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(path.Ext(filepath.ToSlash(name))) {
	case ".txt", ".csv":
		return decodeText(data), nil
	case ".xml", ".html", ".htm":
		return e.stripMarkup(decodeText(data)), nil
	case ".rtf":
		return stripRTF(decodeText(data)), nil
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return e.officeXMLText(data, func(n string) bool {
			return n == "word/document.xml" ||
				strings.HasPrefix(n, "word/header") ||
				strings.HasPrefix(n, "word/footer")
		})
	case ".pptx":
		return e.officeXMLText(data, slideNameRegex.MatchString)
	case ".xlsx":
		return e.officeXMLText(data, func(n string) bool {
			return n == "xl/sharedStrings.xml" || sheetNameRegex.MatchString(n)
		})
	case ".doc", ".xls", ".ppt":
		return printableRuns(data), nil
	case ".zip":
		if depth >= maxArchiveDepth {
			return "", nil
		}
		return e.archiveText(ctx, data, depth+1)
	default:
		return "", ErrUnsupportedFormat
	}
}

// stripMarkup removes all tags from markup and unescapes entities.
func (e *Extractor) stripMarkup(markup string) string {
	policy := e.policyPool.Get().(*bluemonday.Policy) //nolint:forcetypeassert // pool only holds policies
	defer e.policyPool.Put(policy)

	// Separate adjacent elements so their text does not run together.
	spaced := strings.ReplaceAll(markup, ">", "> ")
	return html.UnescapeString(policy.Sanitize(spaced))
}

func (e *Extractor) officeXMLText(data []byte, want func(string) bool) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open office document: %w", err)
	}

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if want(f.Name) {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var b strings.Builder
	for _, f := range files {
		content, err := e.readZipFile(f)
		if err != nil {
			return "", err
		}
		b.WriteString(e.stripMarkup(string(content)))
		b.WriteByte(' ')
	}
	return b.String(), nil
}

func (e *Extractor) archiveText(ctx context.Context, data []byte, depth int) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	var b strings.Builder
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !Supported(f.Name) {
			continue
		}
		content, err := e.readZipFile(f)
		if err != nil {
			e.logger.Debug("skipping unreadable archive entry", "entry", f.Name, "error", err)
			continue
		}
		text, err := e.extractBytes(ctx, f.Name, content, depth)
		if err != nil {
			e.logger.Debug("skipping archive entry", "entry", f.Name, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteByte(' ')
	}
	return b.String(), nil
}

func (e *Extractor) readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, e.maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return content, nil
}

// pdfText extracts the text layer of a PDF. The PDF reader panics on some
// malformed files; the panic is turned into an error.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

// stripRTF removes RTF control words, control symbols and group braces.
func stripRTF(s string) string {
	return rtfControlRegex.ReplaceAllString(s, " ")
}

// printableRuns returns the runs of printable characters of a binary
// document, separated by spaces. Legacy Office files store most text as
// plain or UTF-16LE runs, so NUL bytes are dropped before scanning.
func printableRuns(data []byte) string {
	cleaned := bytes.ReplaceAll(data, []byte{0}, nil)

	var (
		b   strings.Builder
		run []rune
	)
	flush := func() {
		if len(run) >= minPrintableRun {
			b.WriteString(string(run))
			b.WriteByte(' ')
		}
		run = run[:0]
	}
	for len(cleaned) > 0 {
		r, size := utf8.DecodeRune(cleaned)
		cleaned = cleaned[size:]
		if r != utf8.RuneError && (unicode.IsPrint(r) || r == '\t') {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return b.String()
}

// decodeText returns data as a string, dropping a UTF-8 byte order mark.
func decodeText(data []byte) string {
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
}

func collapse(s string) string {
	return strings.TrimSpace(repeatedSpaceRegex.ReplaceAllString(s, " "))
}

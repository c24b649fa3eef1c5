package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/woodspider/internal/database"
	"github.com/nao1215/woodspider/internal/keyword"
	"github.com/nao1215/woodspider/internal/model"
	"github.com/nao1215/woodspider/internal/robots"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testNow is the fixed clock of every test store.
var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

// fakeFetcher serves pages from memory. Unknown URLs fail with ErrFetch.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*model.Page
	calls map[string]int
}

func newFakeFetcher(pages ...*model.Page) *fakeFetcher {
	f := &fakeFetcher{
		pages: make(map[string]*model.Page),
		calls: make(map[string]int),
	}
	for _, p := range pages {
		f.pages[p.URL] = p
	}
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (*model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[pageURL]++
	p, ok := f.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s unreachable", ErrFetch, pageURL)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeFetcher) callCount(pageURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pageURL]
}

// fakePolicies returns a fixed policy per root; unknown roots allow all.
type fakePolicies map[string]*robots.Policy

func (p fakePolicies) Policy(_ context.Context, rootURL string) *robots.Policy {
	return p[rootURL]
}

// fakeDownloader writes canned content. Unknown URLs fail with ErrDownload.
type fakeDownloader struct {
	mu      sync.Mutex
	content map[string]string
	calls   int
}

func (d *fakeDownloader) Download(_ context.Context, rawURL, dest string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	body, ok := d.content[rawURL]
	if !ok {
		return "", fmt.Errorf("%w: %s returned HTTP 404", ErrDownload, rawURL)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, []byte(body), 0600); err != nil {
		return "", err
	}
	return "hash-" + filepath.Base(dest), nil
}

func (d *fakeDownloader) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// fileExtractor returns the raw file content as text.
type fileExtractor struct{}

func (fileExtractor) Extract(_ context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // test file
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func testCatalogs() *model.Catalogs {
	return model.NewCatalogs(
		[]model.KeywordEntry{
			{Keyword: "timber", ID: 1},
			{Keyword: "glulam", ID: 2},
			{Keyword: "building", ID: 200},
		},
		[]string{"spam.com"},
		[]string{"casino"},
		model.DefaultCatalogLimits(),
		discardLogger,
	)
}

func testStoreOptions() database.Options {
	opts := database.DefaultOptions()
	opts.Logger = discardLogger
	opts.Now = func() time.Time { return testNow }
	return opts
}

func openTestStore(t *testing.T, dir string) *database.FrontierDB {
	t.Helper()

	db, err := database.Open(dir, testStoreOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testOpener opens a fresh connection to the database in dir.
func testOpener(dir string) StoreOpener {
	return func(context.Context) (SessionStore, error) {
		return database.Open(dir, testStoreOptions())
	}
}

type spiderFixture struct {
	spider      *Spider
	fetcher     *fakeFetcher
	downloader  *fakeDownloader
	downloadDir string
}

func newSpiderFixture(t *testing.T, pages []*model.Page, resources map[string]string, policies fakePolicies, opts ...SpiderOption) *spiderFixture {
	t.Helper()

	catalogs := testCatalogs()
	fetcher := newFakeFetcher(pages...)
	downloader := &fakeDownloader{content: resources}
	downloadDir := t.TempDir()
	interceptor := NewResourceInterceptor(downloader, fileExtractor{},
		keyword.NewMatcher(catalogs.Keywords()), downloadDir,
		WithInterceptLogger(discardLogger),
	)
	opts = append([]SpiderOption{WithSpiderLogger(discardLogger)}, opts...)
	return &spiderFixture{
		spider:      NewSpider(catalogs, fetcher, interceptor, policies, opts...),
		fetcher:     fetcher,
		downloader:  downloader,
		downloadDir: downloadDir,
	}
}

func mustGetLink(t *testing.T, db *database.FrontierDB, url string) *model.LinkRecord {
	t.Helper()

	rec, err := db.GetLink(context.Background(), url)
	if err != nil {
		t.Fatalf("GetLink(%q) error = %v", url, err)
	}
	return rec
}

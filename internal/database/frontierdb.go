package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DatabaseFileName is the name of the SQLite file inside the database directory.
const DatabaseFileName = "woodspider.db"

// Defaults for Options.
const (
	DefaultMaxTraverseDepth = 7
	DefaultStaleTTL         = 30 * 24 * time.Hour
)

// timestampLayout is the layout of every timestamp written to the store.
const timestampLayout = "2006-01-02 15:04:05"

// FrontierDB is the persisted crawl frontier.
type FrontierDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	maxDepth int
	staleTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Options configures FrontierDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// MaxTraverseDepth is the deepest crawl level a link may be stored at.
	MaxTraverseDepth int

	// StaleTTL is the age after which an explored link becomes stale.
	StaleTTL time.Duration

	// Logger receives best-effort failure reports. Defaults to slog.Default().
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Rand shuffles candidate lists. Defaults to a randomly seeded source.
	Rand *rand.Rand
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		MaxTraverseDepth:  DefaultMaxTraverseDepth,
		StaleTTL:          DefaultStaleTTL,
	}
}

// Open opens or creates a FrontierDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*FrontierDB, error) {
	dbPath := filepath.Join(dbDir, DatabaseFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run 'woodspider seed' or 'woodspider catalog import' first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer. A single connection also makes every
	// transaction below mutually exclusive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FrontierDB{
		db:       db,
		dbPath:   dbPath,
		maxDepth: opts.MaxTraverseDepth,
		staleTTL: opts.StaleTTL,
		now:      opts.Now,
		logger:   opts.Logger,
		rng:      opts.Rand,
	}
	if fdb.maxDepth <= 0 {
		fdb.maxDepth = DefaultOptions().MaxTraverseDepth
	}
	if fdb.staleTTL <= 0 {
		fdb.staleTTL = DefaultOptions().StaleTTL
	}
	if fdb.now == nil {
		fdb.now = time.Now
	}
	if fdb.logger == nil {
		fdb.logger = slog.Default()
	}
	if fdb.rng == nil {
		fdb.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // shuffling only
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := fdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return fdb, nil
}

// Close closes the database connection.
func (fdb *FrontierDB) Close() error {
	return fdb.db.Close()
}

// Path returns the path of the SQLite file.
func (fdb *FrontierDB) Path() string {
	return fdb.dbPath
}

// MaxTraverseDepth returns the deepest level a link may be stored at.
func (fdb *FrontierDB) MaxTraverseDepth() int {
	return fdb.maxDepth
}

// createTables creates the database schema if it doesn't exist.
func (fdb *FrontierDB) createTables() error {
	schema := `
	-- Every discovered URL, keyed by its canonical text
	CREATE TABLE IF NOT EXISTS links (
		url TEXT PRIMARY KEY,
		link_id INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		synopsis TEXT NOT NULL DEFAULT '',
		download_path TEXT NOT NULL DEFAULT '',
		content_hash TEXT NOT NULL DEFAULT '',
		discovered TEXT NOT NULL,
		last_explored TEXT,
		keyword_count INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 30,
		level INTEGER NOT NULL DEFAULT 0,
		referrer_id INTEGER NOT NULL DEFAULT -1
	);

	CREATE INDEX IF NOT EXISTS idx_links_status ON links(status);
	CREATE INDEX IF NOT EXISTS idx_links_explored ON links(last_explored);
	CREATE INDEX IF NOT EXISTS idx_links_hash ON links(content_hash);

	-- Keyword hits per explored link
	CREATE TABLE IF NOT EXISTS keyword_links (
		link_id INTEGER NOT NULL,
		keyword_id INTEGER NOT NULL,
		PRIMARY KEY (link_id, keyword_id)
	);

	CREATE INDEX IF NOT EXISTS idx_keyword_links_keyword ON keyword_links(keyword_id);

	-- Catalogs
	CREATE TABLE IF NOT EXISTS keywords (
		keyword_id INTEGER PRIMARY KEY,
		keyword TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exclusion_sites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS exclusion_keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL UNIQUE
	);

	-- Monotonic link identifier counter (single row)
	CREATE TABLE IF NOT EXISTS link_counter (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_id INTEGER NOT NULL
	);

	INSERT OR IGNORE INTO link_counter (id, next_id) VALUES (1, 1);

	-- Crawl session journal
	CREATE TABLE IF NOT EXISTS crawl_sessions (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		started TEXT NOT NULL,
		finished TEXT,
		processed INTEGER NOT NULL DEFAULT 0,
		added INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON crawl_sessions(started);
	`

	_, err := fdb.db.ExecContext(context.Background(), schema)
	return err
}

// timestamp returns the current time in storage form.
func (fdb *FrontierDB) timestamp() string {
	return formatTimestamp(fdb.now())
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
	"2006-01-02",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseNullTimestamp(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	return parseTimestamp(s.String)
}

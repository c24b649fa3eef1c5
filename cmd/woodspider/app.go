package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/woodspider/internal/config"
	"github.com/nao1215/woodspider/internal/crawler"
	"github.com/nao1215/woodspider/internal/database"
	"github.com/nao1215/woodspider/internal/extract"
	"github.com/nao1215/woodspider/internal/keyword"
	wslog "github.com/nao1215/woodspider/internal/log"
	"github.com/nao1215/woodspider/internal/model"
	"github.com/nao1215/woodspider/internal/robots"
	"github.com/spf13/cobra"
)

// app carries what every command needs: the merged configuration, the
// logger and the error log that must be closed on exit.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	errLog *wslog.ErrorLog
	out    io.Writer
}

// newApp builds the configuration (defaults, then the config file, then
// global flags), validates it and sets up logging.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	errLog, err := wslog.OpenErrorLog(cfg.ErrorLog)
	if err != nil {
		return nil, err
	}
	logger := wslog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, errLog)
	slog.SetDefault(logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		errLog: errLog,
		out:    cmd.OutOrStdout(),
	}, nil
}

// Close flushes the error log.
func (a *app) Close() {
	if err := a.errLog.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// buildConfig creates a Config from the config file and the global flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	flags := cmd.Flags()
	var err error

	cfg.Verbose, err = flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if dir, err := flags.GetString("db-dir"); err != nil {
		return nil, err
	} else if dir != "" {
		cfg.DBDir = dir
	}
	if dir, err := flags.GetString("download-dir"); err != nil {
		return nil, err
	} else if dir != "" {
		cfg.DownloadDir = dir
	}

	return cfg, nil
}

// dbOptions returns the store options for cfg.
func (a *app) dbOptions() database.Options {
	opts := database.DefaultOptions()
	opts.MaxTraverseDepth = a.cfg.MaxTraverseDepth
	opts.StaleTTL = a.cfg.StaleTTL
	opts.Logger = a.logger
	return opts
}

// openDB opens the frontier database, creating it when missing.
func (a *app) openDB() (*database.FrontierDB, error) {
	db, err := database.Open(a.cfg.DBDir, a.dbOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.logger.Debug("database opened", "path", db.Path())
	return db, nil
}

// opener returns a StoreOpener that opens a fresh connection per call.
func (a *app) opener() crawler.StoreOpener {
	return func(_ context.Context) (crawler.SessionStore, error) {
		db, err := a.openDB()
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// loadCatalogs reads the keyword and exclusion catalogs once.
func (a *app) loadCatalogs(ctx context.Context) (*model.Catalogs, error) {
	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	catalogs, err := db.LoadCatalogs(ctx, a.cfg.CatalogLimits(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}
	if len(catalogs.Keywords()) == 0 {
		a.logger.Warn("keyword catalog is empty; run 'woodspider catalog import' first")
	}
	return catalogs, nil
}

// newSpider wires the HTTP client, robots reader, fetcher and resource
// interceptor into a Spider.
func (a *app) newSpider(catalogs *model.Catalogs) (*crawler.Spider, error) {
	cfg := a.cfg

	client, err := crawler.NewHTTPClient(crawler.ClientOptions{
		Timeout:      cfg.Timeout,
		ProxyAddress: cfg.ProxyAddress,
	})
	if err != nil {
		return nil, err
	}

	mode, err := robots.ParseMatchMode(cfg.RobotsMatch)
	if err != nil {
		return nil, err
	}
	policies := robots.NewCache(robots.NewReader(cfg.AgentName,
		robots.WithHTTPClient(client),
		robots.WithUserAgent(cfg.UserAgent),
		robots.WithMaxDisallows(cfg.MaxDisallows),
		robots.WithTimeout(cfg.Timeout),
		robots.WithMatchMode(mode),
		robots.WithLogger(a.logger),
	))

	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	if err := os.MkdirAll(cfg.DownloadDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	interceptor := crawler.NewResourceInterceptor(
		crawler.NewHTTPDownloader(client, cfg.UserAgent, cfg.MaxDownloadSize),
		extract.New(
			extract.WithMaxFileSize(cfg.MaxDownloadSize),
			extract.WithLogger(a.logger),
		),
		keyword.NewMatcher(catalogs.Keywords(),
			keyword.WithMaxHits(cfg.MaxKeywordHits),
			keyword.WithLogger(a.logger),
		),
		cfg.DownloadDir,
		crawler.WithInterceptMaxDepth(cfg.MaxTraverseDepth),
		crawler.WithInterceptLogger(a.logger),
	)

	return crawler.NewSpider(catalogs, fetcher, interceptor, policies,
		crawler.WithShallowSearchDepth(cfg.ShallowSearchDepth),
		crawler.WithStaleTTL(cfg.StaleTTL),
		crawler.WithMaxKeywordHits(cfg.MaxKeywordHits),
		crawler.WithStoreOpener(a.opener()),
		crawler.WithSpiderLogger(a.logger),
	), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, finishing current links...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/modwiki"
	"github.com/fwojciec/modwiki/config"
	"github.com/fwojciec/modwiki/fs"
	"github.com/fwojciec/modwiki/goquery"
	mwhttp "github.com/fwojciec/modwiki/http"
	"github.com/fwojciec/modwiki/readability"
	"github.com/fwojciec/modwiki/search"
	mwslog "github.com/fwojciec/modwiki/slog"
	"github.com/fwojciec/modwiki/sqlite"
	"github.com/fwojciec/modwiki/trafilatura"
	"github.com/fwojciec/modwiki/update"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config overrides configuration loading when set.
	Config *config.Config

	// Services for end-to-end testing. When nil they are built from the
	// configuration.
	Store   modwiki.Store
	Fetcher modwiki.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	if m.Fetcher != nil {
		firstErr = m.Fetcher.Close()
	}
	if m.Store != nil {
		if err := m.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run executes the CLI with the given arguments. Every error is reported on
// stderr as "error: <message>" before it is returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("modwiki"),
		kong.Description("Discover mods listed on the community mod wiki."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return deps.fail(fmt.Errorf("failed to create parser: %w", err))
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return deps.fail(modwiki.Errorf(modwiki.EINVALID, "no command specified. Run 'modwiki --help' to see available commands"))
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return deps.fail(err)
	}

	cfg := m.Config
	if cfg == nil {
		cfg, err = config.Load(cli.Config)
		if err != nil {
			return deps.fail(err)
		}
	}
	if cli.DB != "" {
		cfg.DBPath = cli.DB
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if m.Store == nil {
		m.Store, err = openStore(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: set MODWIKI_DB_PATH or --db to use a different cache location\n")
			return deps.fail(err)
		}
	}
	defer m.Close()

	store := mwslog.NewLoggingStore(m.Store, logger)
	deps.Store = store
	deps.Querier = search.NewEngine(store)
	deps.JSON = cli.JSON
	deps.StaleAfter = cfg.StaleAfter

	// Only the update command touches the network.
	if kongCtx.Command() == "update" {
		deps.Updater = m.newUpdater(cfg, store, logger)
	}

	return kongCtx.Run(deps)
}

func (m *Main) newUpdater(cfg *config.Config, store modwiki.Store, logger *slog.Logger) *update.Updater {
	if m.Fetcher == nil {
		opts := []mwhttp.Option{
			mwhttp.WithTimeout(cfg.Timeout),
			mwhttp.WithLogger(logger),
		}
		if cfg.UserAgent != "" {
			opts = append(opts, mwhttp.WithUserAgent(cfg.UserAgent))
		}
		m.Fetcher = mwhttp.NewFetcher(opts...)
	}
	fetcher := mwslog.NewLoggingFetcher(m.Fetcher, logger)
	limiter := update.NewHostLimiter(cfg.RateLimit)
	// Page fetches wait on the limiter inside the Updater; listing calls
	// share it through the fetcher.
	listFetcher := update.NewLimitedFetcher(fetcher, limiter)
	lister := mwslog.NewLoggingCategoryLister(mwhttp.NewCategoryLister(listFetcher, cfg.WikiURL), logger)

	extractor := goquery.NewExtractor(goquery.WithFallback(modwiki.TextExtractors{
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	}))

	pages := make([]string, 0, len(cfg.Pages))
	for _, p := range cfg.Pages {
		if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			p = lister.PageURL(p)
		}
		pages = append(pages, p)
	}

	return &update.Updater{
		Fetcher:     fetcher,
		Lister:      lister,
		Extractor:   mwslog.NewLoggingExtractor(extractor, logger),
		Store:       store,
		RateLimiter: limiter,
		ListPages:   pages,
		Categories:  cfg.Categories,
		Concurrency: cfg.Concurrency,
	}
}

// openStore opens the configured cache backend, creating its directory.
func openStore(cfg *config.Config) (modwiki.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "failed to create cache directory: %v", err)
	}

	switch cfg.Store {
	case config.StoreJSON:
		return fs.NewSnapshotStore(cfg.DBPath), nil
	default:
		db := sqlite.NewDB(cfg.DBPath)
		if err := db.Open(); err != nil {
			return nil, err
		}
		return sqlite.NewModStore(db), nil
	}
}

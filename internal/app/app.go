package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kmorrow/shopkeep/internal/cache"
	"github.com/kmorrow/shopkeep/internal/catalog"
	"github.com/kmorrow/shopkeep/internal/config"
	"github.com/kmorrow/shopkeep/internal/editor"
	"github.com/kmorrow/shopkeep/internal/mutate"
	"github.com/kmorrow/shopkeep/internal/prefs"
	"github.com/kmorrow/shopkeep/internal/ui"
)

const warmupTimeout = 3 * time.Second

// Options configure the shopkeep application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/shopkeep/prefs.toml
	RefreshEvery int    // seconds; zero uses the UI default
}

// Run boots the shopkeep TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog := newLogger(cfg.LogPath)
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := catalog.NewClient(cfg.APIURL, catalog.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	store := cache.New(client, cache.Options{
		FreshFor: cfg.FreshFor,
		Logger:   log,
	})
	session := &editor.Session{}
	coord := mutate.NewCoordinator(client, store, session, log)

	// Pre-warm the cache so the first frame can render data when the server
	// answers quickly. Failures are not fatal; the UI shows its own loading
	// and error states.
	warmup(ctx, store, log)

	uiOpts := ui.Options{
		Context:     ctx,
		Store:       store,
		Session:     session,
		Coordinator: coord,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		Logger:      log,
	}
	if opts.RefreshEvery > 0 {
		uiOpts.RefreshEvery = time.Duration(opts.RefreshEvery) * time.Second
	}
	return ui.Run(uiOpts)
}

func warmup(ctx context.Context, store *cache.Store, log logrus.FieldLogger) {
	wctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	if _, err := store.Products(wctx, 1); err != nil {
		log.WithError(err).Warn("initial product fetch failed")
	}
	if _, err := store.Categories(wctx); err != nil {
		log.WithError(err).Warn("initial category fetch failed")
	}
}

// newLogger opens the log file and returns a logger plus its cleanup. The
// terminal belongs to the TUI, so when the file cannot be opened logging is
// discarded rather than written to stderr.
func newLogger(path string) (*logrus.Logger, func()) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return log, func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return log, func() {}
	}

	log.SetOutput(file)
	return log, func() { _ = file.Close() }
}

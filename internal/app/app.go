package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/shopkeep/internal/catalog"
	"github.com/five82/shopkeep/internal/config"
	"github.com/five82/shopkeep/internal/export"
	"github.com/five82/shopkeep/internal/logging"
	"github.com/five82/shopkeep/internal/prefs"
	"github.com/five82/shopkeep/internal/state"
	"github.com/five82/shopkeep/internal/ui"
	"github.com/five82/shopkeep/internal/view"
	"github.com/five82/shopkeep/internal/web"
	"github.com/five82/shopkeep/internal/workflow"
)

const shutdownTimeout = 5 * time.Second

// Options configure every shopkeep command.
type Options struct {
	ConfigPath string   // empty uses ~/.config/shopkeep/config.toml
	PrefsPath  string   // empty uses ~/.config/shopkeep/prefs.toml
	EnvFiles   []string // loaded before the config; missing files are skipped
	Verbose    bool
}

// runtime is the wired application shared by Run, Serve and Export.
type runtime struct {
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	logger    *zap.Logger
	store     *state.Store
	service   *workflow.Service
}

// setup loads configuration and builds the logger and the remote client.
// With preload it also performs the initial catalog fetch. A failed fetch is
// not an error: the session starts with an empty catalog.
func setup(ctx context.Context, opts Options, preload bool) (*runtime, error) {
	if err := config.LoadEnvFiles(opts.EnvFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Verbose: opts.Verbose})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("preferences unreadable, using defaults", zap.String("path", prefsPath), zap.Error(err))
	}

	client, err := catalog.NewClient(cfg.APIURL,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithLogger(logger))
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	store := &state.Store{}
	rt := &runtime{
		cfg:       cfg,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		logger:    logger,
		store:     store,
		service:   workflow.NewService(client, store, logger),
	}

	logger.Info("shopkeep starting", zap.String("api_url", cfg.APIURL))
	if preload {
		load(ctx, rt.service)
	}
	return rt, nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}

// Run boots the TUI until the user quits or the context is cancelled. The
// TUI performs the initial fetch itself so the spinner and the outcome
// notice are shown.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(ctx, opts, false)
	if err != nil {
		return err
	}
	defer rt.close()

	return ui.Run(rt.uiOptions(ctx))
}

func (rt *runtime) uiOptions(ctx context.Context) ui.Options {
	return ui.Options{
		Context:   ctx,
		Service:   rt.service,
		Config:    rt.cfg,
		Prefs:     rt.prefs,
		PrefsPath: rt.prefsPath,
		Logger:    rt.logger,
	}
}

// ServeOptions configure the HTML view.
type ServeOptions struct {
	Options
	Listen string // empty uses the configured address
}

// Serve runs the HTML view until the context is cancelled. SIGHUP reloads
// the catalog.
func Serve(ctx context.Context, opts ServeOptions) error {
	rt, err := setup(ctx, opts.Options, true)
	if err != nil {
		return err
	}
	defer rt.close()

	addr := opts.Listen
	if addr == "" {
		addr = rt.cfg.Listen
	}

	srv, err := web.NewServer(web.ServerConfig{
		Store:   rt.store,
		PerPage: rt.cfg.PerPage,
		APIURL:  rt.cfg.APIURL,
		Logger:  rt.logger,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.logger.Info("html view listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		rt.logger.Info("html view stopped")
		return nil
	})
	g.Go(func() error {
		reloadOn(gctx, rt.service, rt.logger, hup)
		return nil
	})
	return g.Wait()
}

// ExportOptions select the page written by Export.
type ExportOptions struct {
	Options
	Query web.Query
	Out   io.Writer
}

// Export writes one page of the catalog as CSV. It fails when the catalog
// could not be fetched rather than writing an empty page.
func Export(ctx context.Context, opts ExportOptions) error {
	rt, err := setup(ctx, opts.Options, true)
	if err != nil {
		return err
	}
	defer rt.close()

	snap := rt.store.Snapshot()
	if snap.LastError != nil {
		return fmt.Errorf("load catalog: %w", snap.LastError)
	}

	q := opts.Query
	if q.PerPage <= 0 {
		q.PerPage = rt.cfg.PerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	vs := view.New(q.PerPage)
	vs.SetProducts(snap.Products)
	q.Apply(vs)
	if vs.Page() != q.Page {
		return fmt.Errorf("page %d out of range (1-%d)", q.Page, vs.PageCount())
	}

	items := vs.PageItems()
	if err := export.WritePage(opts.Out, items); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	rt.logger.Info("page exported",
		zap.Int("page", vs.Page()),
		zap.Int("rows", len(items)))
	return nil
}

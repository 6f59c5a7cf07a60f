package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bumodocs/internal/cache"
	"bumodocs/internal/config"
	"bumodocs/internal/database"
	"bumodocs/internal/docs"
	"bumodocs/internal/engine"
	"bumodocs/internal/handlers"
	"bumodocs/internal/markdown"
	"bumodocs/internal/middleware"
	"bumodocs/internal/models"
	"bumodocs/internal/render"
	"bumodocs/internal/router"
	"bumodocs/internal/session"
	"bumodocs/internal/site"
	"bumodocs/internal/store"
	"bumodocs/web"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the documentation server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed sample docs (no-op if docs already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	valkey, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkey.Close()

	siteCfg, err := site.Load(cfg.SiteConfig)
	if err != nil {
		return err
	}

	docStore := store.NewDocStore(db)
	eng := engine.New(docStore, markdown.New(siteCfg.Highlight.Theme))
	eng.SetPageCache(cache.NewPageCache(valkey, cfg.PageCacheTTL))
	eng.InvalidateAll(ctx)

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := startDocs(ctx, &wg, cfg, docStore, eng); err != nil {
		return err
	}

	renderer, err := render.New(siteCfg)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	// Non-development environments get Secure (HTTPS-only) visitor cookies.
	sessions := session.NewStore(valkey, cfg.SessionTTL, !cfg.IsDev())

	limiter := middleware.NewRateLimiter(cfg.TabRateLimit, time.Minute)
	wg.Add(1)
	go func() {
		defer wg.Done()
		limiter.Run(ctx, middleware.DefaultSweepInterval)
	}()

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return err
	}

	r := router.New(router.Deps{
		Public:  handlers.NewPublic(siteCfg, eng, sessions, renderer, cfg.Origin),
		Visitor: sessions,
		Limiter: limiter,
		Static:  static,
		CSP:     middleware.ContentSecurityPolicy(siteCfg.Scripts),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// startDocs imports the docs directory when it exists and, if enabled,
// keeps watching it. Changed docs drop their cached pages.
func startDocs(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, st docs.Store, eng *engine.Engine) error {
	if _, err := os.Stat(cfg.DocsDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("docs directory missing, serving stored docs", "dir", cfg.DocsDir)
			return nil
		}
		return err
	}

	im := docs.NewImporter(cfg.DocsDir, st)
	res, err := im.ImportAll(ctx)
	if err != nil {
		return err
	}
	eng.Invalidate(ctx, res.Changed)

	if !cfg.DocsWatch {
		return nil
	}
	w := docs.NewWatcher(im, docs.DefaultDebounce, func(changed []models.Doc) {
		eng.Invalidate(ctx, changed)
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.Run(ctx); err != nil {
			slog.Error("docs watcher stopped", "error", err)
		}
	}()
	return nil
}

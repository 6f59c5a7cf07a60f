package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bumodocs/internal/cache"
	"bumodocs/internal/database"
	"bumodocs/internal/docs"
	"bumodocs/internal/store"
)

var flushPages bool

func init() {
	importCmd.Flags().BoolVar(&flushPages, "flush", false, "drop every cached page, not only those of changed docs")
}

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import Markdown docs into the database",
	Long: `import walks the docs directory (DOCS_DIR by default) and stores every
Markdown file. Docs under cn/ belong to the Chinese locale. Unchanged
files are skipped, and cached pages of changed docs are dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cfg.DocsDir
		if len(args) == 1 {
			dir = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}

		docStore := store.NewDocStore(db)
		res, err := docs.NewImporter(dir, docStore).ImportAll(ctx)
		if err != nil {
			return err
		}
		if total, err := docStore.Count(); err == nil {
			slog.Info("docs stored", "total", total, "changed", len(res.Changed))
		}

		// A running server may hold stale pages; drop them when Valkey is up.
		if flushPages || len(res.Changed) > 0 {
			vctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			client, err := cache.ConnectValkey(vctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
			if err != nil {
				slog.Warn("valkey unavailable, cached pages not invalidated", "error", err)
				return nil
			}
			defer client.Close()
			pages := cache.NewPageCache(client, cfg.PageCacheTTL)
			if flushPages {
				pages.InvalidateAll(vctx)
			} else {
				pages.InvalidateDocs(vctx, res.Changed)
			}
		}
		return nil
	},
}

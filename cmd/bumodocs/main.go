// Package main is the entry point for the BUMO documentation server.
// It wires the serve, migrate and import commands.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bumodocs/internal/config"
)

var logLevel string

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bumodocs",
	Short: "Serve the BUMO documentation site",
	Long: `bumodocs serves the BUMO documentation site from Markdown docs stored
in PostgreSQL. Visitor tab choices are kept in Valkey and applied on
the server, so pages render with the visitor's selected tabs.

  bumodocs serve            Start the HTTP server
  bumodocs migrate          Apply database migrations
  bumodocs import [dir]     Import Markdown docs into the database`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, migrateCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and installs the default logger.
// Production logs are JSON, everything else is text.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(logLevel, cfg.IsDev())
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return cfg, nil
}

// parseLevel maps the --log-level flag; empty means debug in development
// and info elsewhere.
func parseLevel(s string, dev bool) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "":
		if dev {
			return slog.LevelDebug, nil
		}
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

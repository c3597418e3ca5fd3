package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mulebuy/internal/collection"
	"mulebuy/internal/config"
	"mulebuy/internal/linkgen"
	"mulebuy/internal/schema"
	"mulebuy/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := newRootCommand(a)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mulebuy: %v\n", err)
		os.Exit(1)
	}
}

// app holds the shared dependencies opened once before any subcommand runs.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	blobs *storage.SQLite
	store *collection.Store
}

// open loads config, opens the database and migrates persisted state.
// Migration runs here, before any other component touches the store.
func (a *app) open(ctx context.Context) error {
	a.cfg = config.Load()
	a.log = newLogger(a.cfg.LogLevel)

	if dir := filepath.Dir(a.cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	blobs, err := storage.NewSQLite(a.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	st, err := schema.Load(ctx, blobs, a.log)
	if err != nil {
		_ = blobs.Close()
		return fmt.Errorf("load state: %w", err)
	}

	a.blobs = blobs
	a.store = collection.New(blobs, a.log, st)

	code := a.cfg.ReferralCode
	if code == "" {
		code = st.Settings.DefaultReferralCode
	}
	linkgen.SetDefaultReferralCode(code)
	return nil
}

func (a *app) close() {
	if a.blobs != nil {
		_ = a.blobs.Close()
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mulebuy",
		Short: "Track marketplace products and convert their URLs to partner links",
		Long: `mulebuy converts Weidian and Taobao product URLs into partner referral
links and organizes converted products into lists with tags, notes and QC
photo links. All state lives in a local SQLite database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	cmd.AddCommand(
		newConvertCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newEditCmd(a),
		newRateCmd(a),
		newMoveCmd(a),
		newRemoveCmd(a),
		newTagCmd(a),
		newQCCmd(a),
		newImageCmd(a),
		newDeriveCmd(a),
		newSetURLCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newHistoryCmd(a),
		newSettingsCmd(a),
	)
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

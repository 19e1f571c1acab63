package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/dragselect/internal/app"
	"github.com/dshills/dragselect/internal/config"
	"github.com/dshills/dragselect/internal/logging"
	"github.com/dshills/dragselect/internal/renderer/backend"
)

func runApp(cmd *cobra.Command, f *runFlags) error {
	loadOpts := f.loadOptions(cmd)
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal owns stdout and stderr while running.
	var out io.Writer = io.Discard
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer file.Close()
		out = file
	}
	log := logging.New(cfg.Logging.Logger(out))
	logging.SetDefault(log)
	log.Info("starting dragselect %s: %s", version, cfg)

	application, err := app.New(app.Options{
		Config:      cfg,
		ConfigPath:  f.path(),
		LoadOptions: withoutFile(loadOpts, f.path() != ""),
		RecordPath:  f.record,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := application.SetBackend(term); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	if f.record != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "trace saved to %s\n", f.record)
	}
	return nil
}

// withoutFile drops the leading WithFile option; the reloader adds its own
// for the watched path.
func withoutFile(opts []config.Option, hasFile bool) []config.Option {
	if !hasFile || len(opts) == 0 {
		return opts
	}
	return opts[1:]
}

// Command readqd serves the reading queue over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"readq/internal/config"
	"readq/internal/daemon"
	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/readinglist"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "readqd",
		Short:         "Reading queue HTTP daemon",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return run(cmd.Context(), cfg, logger, nil)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	return cmd
}

// run serves until ctx is cancelled. ready, when set, is called once the
// daemon is listening.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, ready func(*daemon.Daemon)) error {
	store, err := notes.Open(cfg)
	if err != nil {
		return fmt.Errorf("open notes database: %w", err)
	}

	svc := readinglist.New(store, cfg,
		readinglist.WithLogger(logger),
		readinglist.WithWriteLock(cfg.LockPath()),
	)

	d, err := daemon.New(cfg, svc, logger)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		return err
	}
	if ready != nil {
		ready(d)
	}

	<-ctx.Done()
	logger.Info("readqd shutting down")
	return nil
}

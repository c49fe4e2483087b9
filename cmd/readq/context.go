package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"readq/internal/config"
	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/readinglist"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.configPath = resolved
		c.configExists = exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withService opens the store for one command and closes it afterwards.
// The context passed to fn carries a fresh correlation ID.
func (c *commandContext) withService(cmd *cobra.Command, fn func(context.Context, *readinglist.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	store, err := notes.Open(cfg)
	if err != nil {
		return fmt.Errorf("open notes database: %w", err)
	}
	defer store.Close()

	svc := readinglist.New(store, cfg,
		readinglist.WithLogger(logger),
		readinglist.WithWriteLock(cfg.LockPath()),
	)
	ctx := logging.WithCorrelationID(cmd.Context(), "")
	return fn(ctx, svc)
}

// cliLogger writes to the log file only so command output stays clean.
func cliLogger(cfg *config.Config) (*slog.Logger, error) {
	if strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return logging.NewNop(), nil
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "readq.log")},
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// explainError adds a hint for errors a user can fix from the CLI.
func explainError(err error) string {
	switch {
	case errors.Is(err, readinglist.ErrCorruptQueue):
		return fmt.Sprintf("%v\nhint: run `readq queue repair`", err)
	case errors.Is(err, notes.ErrSchemaMismatch):
		return fmt.Sprintf("%v\nhint: the database was created by another readq version", err)
	default:
		return err.Error()
	}
}

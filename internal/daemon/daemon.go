package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"readq/internal/config"
	"readq/internal/logging"
	"readq/internal/readinglist"
)

// ErrAlreadyRunning is returned when another readqd holds the instance lock.
var ErrAlreadyRunning = errors.New("another readqd instance is already running")

// Daemon serves the reading list and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *readinglist.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool   `json:"running"`
	Address      string `json:"address,omitempty"`
	DatabasePath string `json:"database_path"`
	LockFilePath string `json:"lock_file_path"`
}

// New constructs a daemon around an opened service.
func New(cfg *config.Config, svc *readinglist.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("daemon requires config and service")
	}
	logger = logging.NewComponentLogger(logger, "daemon")
	lockPath := cfg.DaemonLockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		svc:      svc,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		api:      newAPIServer(cfg, svc, logger),
	}, nil
}

// Start acquires the instance lock and begins serving HTTP.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	if err := d.api.start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("readqd started",
		slog.String("lock", d.lockPath),
		slog.String("address", d.api.address()),
	)
	return nil
}

// Stop shuts the HTTP server down and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.api.stop(); err != nil {
		d.logger.Warn("api shutdown", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("readqd stopped")
}

// Close stops the daemon and closes the underlying store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.svc.Store().Close()
}

// Status reports runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Address:      d.api.address(),
		DatabasePath: d.svc.Store().Path(),
		LockFilePath: d.lockPath,
	}
}

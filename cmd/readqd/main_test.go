package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"readq/internal/daemon"
	"readq/internal/logging"
	"readq/internal/testsupport"
)

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, logging.NewNop(), func(d *daemon.Daemon) {
			addr <- d.Status().Address
		})
	}()

	var base string
	select {
	case base = <-addr:
	case err := <-done:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not start")
	}

	resp, err := http.Get("http://" + base + "/api/v1/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || !envelope.Success {
		t.Fatalf("health body: %+v, %v", envelope, err)
	}

	// A second daemon on the same data directory must refuse to start.
	err = run(ctx, cfg, logging.NewNop(), nil)
	if !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("second run err = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

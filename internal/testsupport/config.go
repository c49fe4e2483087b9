package testsupport

import (
	"path/filepath"
	"testing"

	"readq/internal/config"
	"readq/internal/schedule"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Server.Mode = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIToken requires bearer authentication on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}

// WithPolicies overrides the default create and consume policies.
func WithPolicies(create, consume schedule.Policy) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Queue.DefaultPolicy = create
		cfg.Queue.ConsumePolicy = consume
	}
}

// WithReviewKinds overrides which review kinds count toward scores.
func WithReviewKinds(kinds ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scoring.ReviewKinds = kinds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

package config

import (
	"errors"
	"fmt"
)

var knownReviewKinds = map[string]struct{}{
	"learn":   {},
	"review":  {},
	"relearn": {},
	"cram":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateQueue() error {
	if !c.Queue.DefaultPolicy.IsValid() {
		return fmt.Errorf("queue.default_policy: invalid policy %s", c.Queue.DefaultPolicy)
	}
	if !c.Queue.ConsumePolicy.IsValid() {
		return fmt.Errorf("queue.consume_policy: invalid policy %s", c.Queue.ConsumePolicy)
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.LowestLimit <= 0 {
		return errors.New("scoring.lowest_limit must be positive")
	}
	for _, kind := range c.Scoring.ReviewKinds {
		if _, ok := knownReviewKinds[kind]; !ok {
			return fmt.Errorf("scoring.review_kinds: unknown kind %q (want learn, review, relearn, or cram)", kind)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode: unsupported value %q", c.Server.Mode)
	}
	if c.Server.RequestsPerSecond <= 0 {
		return errors.New("server.requests_per_second must be positive")
	}
	if c.Server.Burst <= 0 {
		return errors.New("server.burst must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

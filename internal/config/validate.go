package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *GathererConfig) Validate() error {
	if c.Quote.URL == "" {
		return errors.New("quote.url is required")
	}
	if c.Quote.MaxAttempts < 1 {
		return errors.New("quote.max_attempts must be >= 1")
	}

	if c.Snapshot.BatchSize < 1 {
		return errors.New("snapshot.batch_size must be >= 1")
	}
	if c.Snapshot.BatchSize > DefaultBatchSize {
		return fmt.Errorf("snapshot.batch_size must be <= %d (endpoint limit), got %d",
			DefaultBatchSize, c.Snapshot.BatchSize)
	}
	if c.Snapshot.MinInterval < 0 {
		return errors.New("snapshot.min_interval must be >= 0")
	}

	if c.Database.Enabled {
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	}

	if c.History.Concurrency < 1 {
		return errors.New("history.concurrency must be >= 1")
	}
	if c.History.LookbackDays < 1 {
		return errors.New("history.lookback_days must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

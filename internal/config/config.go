package config

import "time"

// GathererConfig is the root configuration for a gatherer run.
type GathererConfig struct {
	Quote    QuoteConfig    `yaml:"quote"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	History  HistoryConfig  `yaml:"history"`
}

// QuoteConfig holds realtime quote endpoint settings.
type QuoteConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`      // per-attempt
	MaxAttempts int           `yaml:"max_attempts"` // total attempts per batch
	Lang        string        `yaml:"lang"`
}

// SnapshotConfig holds batching and pacing settings.
type SnapshotConfig struct {
	BatchSize   int           `yaml:"batch_size"`
	MinInterval time.Duration `yaml:"min_interval"` // floor between batch requests
}

// OutputConfig holds file sink settings.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	SheetName string `yaml:"sheet_name"`
}

// DatabaseConfig holds the optional Postgres sink.
type DatabaseConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// HistoryConfig holds the historical daily-bars provider settings.
type HistoryConfig struct {
	URL          string        `yaml:"url"`
	Timeout      time.Duration `yaml:"timeout"`
	Concurrency  int           `yaml:"concurrency"`
	LookbackDays int           `yaml:"lookback_days"` // default start = end - lookback
}

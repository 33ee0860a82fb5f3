package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultQuoteURL    = "https://mis.twse.com.tw/stock/api/getStockInfo.jsp"
	DefaultTimeout     = 5 * time.Second
	DefaultMaxAttempts = 3
	DefaultLang        = "zh_tw"

	DefaultBatchSize   = 50
	DefaultMinInterval = 200 * time.Millisecond

	DefaultOutputDir = "."
	DefaultSheetName = "snapshots"

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultHistoryURL         = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultHistoryTimeout     = 10 * time.Second
	DefaultHistoryConcurrency = 4
	DefaultLookbackDays       = 30
)

func (c *GathererConfig) applyDefaults() {
	// Quote endpoint defaults
	if c.Quote.URL == "" {
		c.Quote.URL = DefaultQuoteURL
	}
	if c.Quote.Timeout == 0 {
		c.Quote.Timeout = DefaultTimeout
	}
	if c.Quote.MaxAttempts == 0 {
		c.Quote.MaxAttempts = DefaultMaxAttempts
	}
	if c.Quote.Lang == "" {
		c.Quote.Lang = DefaultLang
	}

	// Snapshot defaults
	if c.Snapshot.BatchSize == 0 {
		c.Snapshot.BatchSize = DefaultBatchSize
	}
	if c.Snapshot.MinInterval == 0 {
		c.Snapshot.MinInterval = DefaultMinInterval
	}

	// Output defaults
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.SheetName == "" {
		c.Output.SheetName = DefaultSheetName
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// History defaults
	if c.History.URL == "" {
		c.History.URL = DefaultHistoryURL
	}
	if c.History.Timeout == 0 {
		c.History.Timeout = DefaultHistoryTimeout
	}
	if c.History.Concurrency == 0 {
		c.History.Concurrency = DefaultHistoryConcurrency
	}
	if c.History.LookbackDays == 0 {
		c.History.LookbackDays = DefaultLookbackDays
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

// Package config defines the JSON-serializable run configuration and a
// small lint pass over it. Field names mirror the JSON structure used in
// config files under configs/*.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"salesetl/internal/clean"
)

// DSNEnv is consulted when storage.dsn is absent from the config file.
const DSNEnv = "SALESETL_DSN"

// Config is the top-level object decoded from a run config file.
type Config struct {
	// Job names the run for metrics labeling and log correlation.
	Job string `json:"job"`

	// Datasets locates the two input files and their destination tables.
	Datasets Datasets `json:"datasets"`

	// Parser configures how the delimited files are read.
	Parser Parser `json:"parser"`

	// Cleaning carries the rule-set options recognized by the engine.
	Cleaning Cleaning `json:"cleaning"`

	// Storage describes where clean sets are written.
	Storage Storage `json:"storage"`
}

// Datasets holds the per-dataset source and destination settings.
// Customers are always processed before orders.
type Datasets struct {
	Customers Dataset `json:"customers"`
	Orders    Dataset `json:"orders"`
}

// Dataset is one input file plus its destination table.
type Dataset struct {
	Path  string `json:"path"`
	Table string `json:"table"`
}

// Parser holds CSV reading options shared by both datasets.
type Parser struct {
	// Comma is the field delimiter; empty means ','.
	Comma string `json:"comma"`

	// TrimSpace trims cell whitespace; nil means true.
	TrimSpace *bool `json:"trim_space"`

	// HeaderMap maps normalized source headers to canonical column names.
	HeaderMap map[string]string `json:"header_map"`
}

// Cleaning mirrors the engine's recognized options (defaults documented
// on clean.Options).
type Cleaning struct {
	MaxOrderAgeYears int      `json:"max_order_age_years"`
	MinTotalAmount   string   `json:"min_total_amount"`
	EmailValidation  *bool    `json:"email_validation"`
	DateLayouts      []string `json:"date_layouts"`
}

// Storage selects and configures the sink.
type Storage struct {
	// Kind selects the backend: "postgres", "mysql", "mssql", or "sqlite".
	Kind string `json:"kind"`

	// DSN is the backend connection string; falls back to $SALESETL_DSN.
	DSN string `json:"dsn"`

	// Mode is "replace" (two-phase stage then swap, the default) or
	// "append".
	Mode string `json:"mode"`

	// AutoCreateTable creates live and staging tables before loading.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize caps rows per bulk write; 0 means 500.
	BatchSize int `json:"batch_size"`
}

// Load reads, decodes, and defaults a config file. Validation is a
// separate step (Validate) so callers can surface all issues at once.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var c Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Datasets.Customers.Table == "" {
		c.Datasets.Customers.Table = "customers"
	}
	if c.Datasets.Orders.Table == "" {
		c.Datasets.Orders.Table = "orders"
	}
	if c.Storage.Mode == "" {
		c.Storage.Mode = "replace"
	}
	if c.Storage.BatchSize == 0 {
		c.Storage.BatchSize = 500
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = os.Getenv(DSNEnv)
	}
}

// TrimSpaceOr reports the trim_space setting with its default.
func (p Parser) TrimSpaceOr() bool {
	if p.TrimSpace == nil {
		return true
	}
	return *p.TrimSpace
}

// CommaRune returns the delimiter rune, defaulting to ','.
func (p Parser) CommaRune() rune {
	if p.Comma == "" {
		return ','
	}
	return []rune(p.Comma)[0]
}

// EngineOptions resolves the cleaning section into engine options.
// The returned error reports an unparsable min_total_amount.
func (c Cleaning) EngineOptions() (clean.Options, error) {
	opts := clean.Options{
		MaxOrderAgeYears: c.MaxOrderAgeYears,
		EmailValidation:  true,
		DateLayouts:      c.DateLayouts,
	}
	if c.EmailValidation != nil {
		opts.EmailValidation = *c.EmailValidation
	}
	if c.MinTotalAmount != "" {
		min, f := clean.Money("min_total_amount", c.MinTotalAmount)
		if f != nil {
			return clean.Options{}, fmt.Errorf("cleaning.min_total_amount: %w", f)
		}
		opts.MinTotalAmount = min
	}
	return opts, nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"salesetl/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates an issue that is surfaced but not fatal.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "storage.kind"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where needed.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

var knownKinds = map[string]bool{"postgres": true, "mysql": true, "mssql": true, "sqlite": true}

// Validate performs static validation of a Config. It does not mutate the
// config; it returns every finding so the CLI can print them all before
// exiting.
func Validate(c Config) []Issue {
	var issues []Issue

	errf := func(path, format string, a ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, a...)})
	}
	warnf := func(path, format string, a ...any) {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if strings.TrimSpace(c.Job) == "" {
		errf("job", "job must not be empty; it labels metrics and log lines")
	}

	checkDataset := func(path string, d Dataset) {
		if strings.TrimSpace(d.Path) == "" {
			errf(path+".path", "source path is required")
		}
		if strings.TrimSpace(d.Table) == "" {
			errf(path+".table", "destination table is required")
		}
	}
	checkDataset("datasets.customers", c.Datasets.Customers)
	checkDataset("datasets.orders", c.Datasets.Orders)
	if c.Datasets.Customers.Table == c.Datasets.Orders.Table && c.Datasets.Customers.Table != "" {
		errf("datasets", "customers and orders must target different tables")
	}

	if len(c.Parser.Comma) > 1 {
		warnf("parser.comma", "only the first rune %q is used", c.Parser.Comma)
	}

	if c.Cleaning.MaxOrderAgeYears < 0 {
		errf("cleaning.max_order_age_years", "must not be negative")
	}
	if _, err := c.Cleaning.EngineOptions(); err != nil {
		errf("cleaning.min_total_amount", "%v", err)
	}
	if c.Cleaning.EmailValidation != nil && !*c.Cleaning.EmailValidation {
		warnf("cleaning.email_validation", "strict email validation disabled; only non-empty check applies")
	}
	for i, layout := range c.Cleaning.DateLayouts {
		// A layout must round-trip its own reference rendering.
		ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
		if _, err := time.Parse(layout, ref.Format(layout)); err != nil {
			errf(fmt.Sprintf("cleaning.date_layouts[%d]", i), "invalid layout %q", layout)
		} else if layout == schema.DateLayout {
			warnf(fmt.Sprintf("cleaning.date_layouts[%d]", i), "ISO %s is always accepted; listing it is redundant", layout)
		}
	}

	if !knownKinds[c.Storage.Kind] {
		errf("storage.kind", "unknown kind %q (want postgres, mysql, mssql, or sqlite)", c.Storage.Kind)
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		errf("storage.dsn", "dsn is required (set it in the config or via $%s)", DSNEnv)
	}
	if c.Storage.Mode != "replace" && c.Storage.Mode != "append" {
		errf("storage.mode", "unknown mode %q (want replace or append)", c.Storage.Mode)
	}
	if c.Storage.BatchSize < 0 {
		errf("storage.batch_size", "must not be negative")
	}

	return issues
}

// HasErrors reports whether any issue is of error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "job": "sales_etl",
  "datasets": {
    "customers": { "path": "data/customers.csv" },
    "orders":    { "path": "data/orders.csv" }
  },
  "parser": { "comma": ",", "header_map": { "e-mail": "email" } },
  "cleaning": {
    "max_order_age_years": 5,
    "min_total_amount": "0.05",
    "email_validation": false,
    "date_layouts": ["02.01.2006"]
  },
  "storage": { "kind": "sqlite", "dsn": "sales.db", "auto_create_table": true }
}`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	if c.Datasets.Customers.Table != "customers" || c.Datasets.Orders.Table != "orders" {
		t.Fatalf("table defaults not applied: %+v", c.Datasets)
	}
	if c.Storage.Mode != "replace" || c.Storage.BatchSize != 500 {
		t.Fatalf("storage defaults not applied: %+v", c.Storage)
	}
	if !c.Parser.TrimSpaceOr() || c.Parser.CommaRune() != ',' {
		t.Fatalf("parser defaults wrong: %+v", c.Parser)
	}
}

func TestLoadDSNFromEnv(t *testing.T) {
	t.Setenv(DSNEnv, "postgres://u:p@localhost/sales")
	body := `{"job":"j","datasets":{"customers":{"path":"a"},"orders":{"path":"b"}},
	          "storage":{"kind":"postgres"}}`
	c, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatal(err)
	}
	if c.Storage.DSN != "postgres://u:p@localhost/sales" {
		t.Fatalf("dsn = %q", c.Storage.DSN)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	if _, err := Load(writeConfig(t, `{"jobb":"x"}`)); err == nil {
		t.Fatal("want decode error for unknown field")
	}
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()

	opts, err := Cleaning{MinTotalAmount: "0.05", MaxOrderAgeYears: 5}.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.MinTotalAmount != 5 || opts.MaxOrderAgeYears != 5 || !opts.EmailValidation {
		t.Fatalf("opts = %+v", opts)
	}
	if _, err := (Cleaning{MinTotalAmount: "-1"}).EngineOptions(); err == nil {
		t.Fatal("negative minimum must be rejected")
	}
}

// The shipped sample config must lint clean, with no warnings such as a
// redundant ISO date layout.
func TestValidateShippedSample(t *testing.T) {
	t.Setenv(DSNEnv, "postgres://u:p@localhost/sales")
	c, err := Load(filepath.Join("..", "..", "configs", "sample.json"))
	if err != nil {
		t.Fatal(err)
	}
	if issues := Validate(c); len(issues) != 0 {
		t.Fatalf("sample config reported issues: %v", issues)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Job: "sales_etl",
		Datasets: Datasets{
			Customers: Dataset{Path: "a.csv", Table: "customers"},
			Orders:    Dataset{Path: "b.csv", Table: "orders"},
		},
		Storage: Storage{Kind: "sqlite", DSN: "x.db", Mode: "replace"},
	}
	if issues := Validate(valid); HasErrors(issues) {
		t.Fatalf("valid config reported errors: %v", issues)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"missing job", func(c *Config) { c.Job = "" }, "job"},
		{"missing path", func(c *Config) { c.Datasets.Orders.Path = "" }, "datasets.orders.path"},
		{"same table", func(c *Config) { c.Datasets.Orders.Table = "customers" }, "datasets"},
		{"bad kind", func(c *Config) { c.Storage.Kind = "oracle" }, "storage.kind"},
		{"missing dsn", func(c *Config) { c.Storage.DSN = "" }, "storage.dsn"},
		{"bad mode", func(c *Config) { c.Storage.Mode = "upsert" }, "storage.mode"},
		{"negative age", func(c *Config) { c.Cleaning.MaxOrderAgeYears = -1 }, "cleaning.max_order_age_years"},
		{"bad minimum", func(c *Config) { c.Cleaning.MinTotalAmount = "cheap" }, "cleaning.min_total_amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			issues := Validate(c)
			if !HasErrors(issues) {
				t.Fatalf("expected error for %s", tc.name)
			}
			found := false
			for _, i := range issues {
				if i.Path == tc.path && i.Severity == SeverityError {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error at path %q in %v", tc.path, issues)
			}
		})
	}

	// Disabling email validation is allowed but flagged.
	off := valid
	no := false
	off.Cleaning.EmailValidation = &no
	issues := Validate(off)
	if HasErrors(issues) || len(issues) == 0 {
		t.Fatalf("want warning only, got %v", issues)
	}
}

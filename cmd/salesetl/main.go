// Command salesetl ingests the customers and orders CSV files named by a
// run config, cleans them, and loads the surviving records into the
// configured relational backend.
//
// Exit codes: 0 on success (data-quality discards included), 2 for
// configuration problems, 1 for structural run failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"salesetl/internal/config"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/datadog"
	"salesetl/internal/metrics/prompush"
	"salesetl/internal/pipeline"

	// register all backends with the storage factory.
	// config selects which one to use but support for all is built in.
	_ "salesetl/internal/storage/all"
)

const (
	exitOK         = 0
	exitStructural = 1
	exitConfig     = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/sample.json", "run config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address (overrides env DOGSTATSD_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	// .env is optional; it typically carries SALESETL_DSN.
	if err := godotenv.Load(); err == nil && *verbose {
		log.Printf("loaded .env")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitConfig
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("configuration is invalid: %v", cfgPath)
		return exitConfig
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		return exitOK
	}

	setupMetrics(cfg.Job, metricsBackendFlg, pushGatewayURLFlg, dogstatsdAddrFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("run: customers=%s orders=%s storage=%s mode=%s",
			cfg.Datasets.Customers.Path, cfg.Datasets.Orders.Path, cfg.Storage.Kind, cfg.Storage.Mode)
	}

	sum, err := pipeline.Run(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		if pipeline.IsStructural(err) {
			return exitStructural
		}
		return exitConfig
	}

	log.Printf("run=%s completed in %s: customers %d/%d loaded, orders %d/%d loaded",
		sum.RunID, time.Since(start).Truncate(time.Millisecond),
		sum.Customers.Loaded, sum.Customers.Attempted,
		sum.Orders.Loaded, sum.Orders.Attempted)
	return exitOK
}

// setupMetrics installs the requested metrics backend; resolution order for
// addresses is flag, then environment, then default.
func setupMetrics(job, backendName, gwURL, dogAddr string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if job == "" {
		job = "salesetl"
	}

	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, job)
		metrics.SetBackend(b)

	case "datadog":
		if dogAddr == "" {
			dogAddr = os.Getenv("DOGSTATSD_ADDR")
		}
		if dogAddr == "" {
			dogAddr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       dogAddr,
			Namespace:  "salesetl.",
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s job=%s", dogAddr, job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

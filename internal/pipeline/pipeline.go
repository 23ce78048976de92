// Package pipeline wires extraction, cleaning, and loading into one run.
//
// A run processes the customers dataset end to end, then the orders
// dataset, strictly in that order: the orders cross-reference check needs
// the final customer clean set. Data-quality discards never abort a run;
// structural failures (unreadable source, empty input, storage errors)
// abort it with a StageError naming the failing collaborator.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salesetl/internal/clean"
	"salesetl/internal/config"
	"salesetl/internal/datasource"
	"salesetl/internal/datasource/file"
	"salesetl/internal/metrics"
	csvparser "salesetl/internal/parser/csv"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
	"salesetl/pkg/records"
)

// Stage names used in StageError and step metrics.
const (
	StageSource  = "source"
	StageParse   = "parse"
	StageClean   = "clean"
	StageStorage = "storage"
	StageLoad    = "load"
	StagePublish = "publish"
)

// StageError is a structural failure pinned to one dataset and stage.
type StageError struct {
	Dataset string
	Stage   string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Dataset, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Function variables used to introduce test seams. In production these
// point to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = func(path string) datasource.Source {
		return file.NewLocal(path)
	}
)

// DatasetSummary aggregates one dataset's pass through the run.
type DatasetSummary struct {
	Dataset     string
	Parsed      int   // raw records handed to the cleaning engine
	SkippedRows int   // malformed lines dropped by the parser
	Attempted   int   // records entering the rule sets
	Accepted    int
	Discarded   int
	Reasons     map[string]int // discard reason histogram
	Loaded      int64          // rows written to the sink
	Batches     int64          // bulk-copy batches flushed
}

// Summary is the result of one complete run.
type Summary struct {
	RunID     string
	Job       string
	Customers DatasetSummary
	Orders    DatasetSummary

	// OrdersSkipped is set when cleaning left no orders; customers were
	// still loaded and the run succeeded.
	OrdersSkipped bool

	Elapsed time.Duration
}

// Run executes the full ingestion for cfg and reports what happened.
// It assumes cfg has passed config.Validate.
func Run(ctx context.Context, cfg config.Config) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()

	engOpts, err := cfg.Cleaning.EngineOptions()
	if err != nil {
		return nil, fmt.Errorf("resolve cleaning options: %w", err)
	}
	eng := clean.NewEngine(engOpts)
	parser := csvparser.NewParser(csvparser.Options{
		HasHeader: true,
		Comma:     cfg.Parser.CommaRune(),
		TrimSpace: cfg.Parser.TrimSpaceOr(),
		HeaderMap: cfg.Parser.HeaderMap,
	})

	sum := &Summary{RunID: runID, Job: cfg.Job}
	log.Printf("run=%s job=%s starting (storage=%s mode=%s)", runID, cfg.Job, cfg.Storage.Kind, cfg.Storage.Mode)

	// Customers first; the orders pass depends on the outcome.
	rawCustomers, skipped, err := extract(ctx, cfg, parser, "customers", cfg.Datasets.Customers.Path)
	if err != nil {
		return nil, err
	}
	sum.Customers = DatasetSummary{Dataset: "customers", Parsed: len(rawCustomers), SkippedRows: skipped}

	cleanStart := time.Now()
	customers, rep, err := eng.CleanCustomers(rawCustomers)
	metrics.RecordStep(cfg.Job, "customers", StageClean, err, time.Since(cleanStart))
	if err != nil {
		return nil, &StageError{Dataset: "customers", Stage: StageClean, Err: err}
	}
	fillCleanStats(&sum.Customers, rep)
	recordCleanMetrics(cfg.Job, &sum.Customers)
	log.Printf("run=%s %s", runID, rep)

	if len(customers) == 0 {
		// Nothing to publish and nothing for orders to reference.
		return nil, &StageError{Dataset: "customers", Stage: StageClean, Err: clean.ErrNoCustomers}
	}

	if err := loadDataset(ctx, cfg, &sum.Customers,
		schema.CustomersTable(cfg.Datasets.Customers.Table),
		schema.CustomerRows(customers)); err != nil {
		return nil, err
	}

	// Orders second, cross-referenced against the final customer set.
	rawOrders, skipped, err := extract(ctx, cfg, parser, "orders", cfg.Datasets.Orders.Path)
	if err != nil {
		return nil, err
	}
	sum.Orders = DatasetSummary{Dataset: "orders", Parsed: len(rawOrders), SkippedRows: skipped}

	cleanStart = time.Now()
	orders, rep, err := eng.CleanOrders(rawOrders, clean.CustomerIDs(customers))
	metrics.RecordStep(cfg.Job, "orders", StageClean, err, time.Since(cleanStart))
	if err != nil {
		return nil, &StageError{Dataset: "orders", Stage: StageClean, Err: err}
	}
	fillCleanStats(&sum.Orders, rep)
	recordCleanMetrics(cfg.Job, &sum.Orders)
	log.Printf("run=%s %s", runID, rep)

	if len(orders) == 0 {
		// Every order was discarded on quality grounds. Customers are
		// already live, so the run still counts as a success.
		sum.OrdersSkipped = true
		log.Printf("run=%s orders: no records survived cleaning, continuing with customers only", runID)
	} else {
		if err := loadDataset(ctx, cfg, &sum.Orders,
			schema.OrdersTable(cfg.Datasets.Orders.Table, cfg.Datasets.Customers.Table),
			schema.OrderRows(orders)); err != nil {
			return nil, err
		}
	}

	sum.Elapsed = time.Since(start)
	log.Printf("run=%s done in %s: customers loaded=%d orders loaded=%d",
		runID, sum.Elapsed.Truncate(time.Millisecond), sum.Customers.Loaded, sum.Orders.Loaded)
	return sum, nil
}

// extract opens one dataset source and parses it into raw records.
// An empty file (or one that parses to zero records) is structural.
func extract(ctx context.Context, cfg config.Config, p *csvparser.Parser, dataset, path string) ([]records.Record, int, error) {
	src := openSourceFn(path)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, &StageError{Dataset: dataset, Stage: StageSource, Err: err}
	}
	defer rc.Close()

	parseStart := time.Now()
	recs, skipped, err := p.Parse(rc)
	metrics.RecordStep(cfg.Job, dataset, StageParse, err, time.Since(parseStart))
	if err != nil {
		return nil, 0, &StageError{Dataset: dataset, Stage: StageParse, Err: err}
	}
	if len(recs) == 0 {
		return nil, 0, &StageError{Dataset: dataset, Stage: StageParse, Err: clean.ErrEmptyInput}
	}

	metrics.RecordRows(cfg.Job, dataset, "parsed", int64(len(recs)))
	metrics.RecordRows(cfg.Job, dataset, "skipped_rows", int64(skipped))
	log.Printf("dataset=%s parsed=%d skipped=%d path=%s", dataset, len(recs), skipped, path)
	return recs, skipped, nil
}

// loadDataset opens a repository for one destination table, ensures the
// tables when configured, streams rows through the batch loader into the
// stage, and publishes.
func loadDataset(ctx context.Context, cfg config.Config, ds *DatasetSummary, def schema.TableDef, rows [][]any) error {
	loadStart := time.Now()
	columns := def.ColumnNames()

	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    cfg.Storage.Kind,
		DSN:     cfg.Storage.DSN,
		Table:   def.Name,
		Columns: columns,
		Mode:    cfg.Storage.Mode,
	})
	if err != nil {
		return &StageError{Dataset: ds.Dataset, Stage: StageStorage, Err: err}
	}
	defer repo.Close()

	if cfg.Storage.AutoCreateTable {
		if err := storage.EnsureTables(ctx, cfg.Storage.Kind, repo, def); err != nil {
			return &StageError{Dataset: ds.Dataset, Stage: StageStorage, Err: err}
		}
	}

	copyFn := func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, cols, batch)
		if err == nil {
			ds.Batches++
		}
		return n, err
	}

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan []any, cfg.Storage.BatchSize)
	g.Go(func() error {
		defer close(ch)
		for _, row := range rows {
			select {
			case ch <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var loaded int64
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, columns, ch, cfg.Storage.BatchSize, copyFn)
		loaded = n
		return err
	})

	err = g.Wait()
	metrics.RecordStep(cfg.Job, ds.Dataset, StageLoad, err, time.Since(loadStart))
	if err != nil {
		return &StageError{Dataset: ds.Dataset, Stage: StageLoad, Err: err}
	}

	if err := repo.Publish(ctx); err != nil {
		metrics.RecordStep(cfg.Job, ds.Dataset, StagePublish, err, time.Since(loadStart))
		return &StageError{Dataset: ds.Dataset, Stage: StagePublish, Err: err}
	}

	ds.Loaded = loaded
	metrics.RecordRows(cfg.Job, ds.Dataset, "loaded", loaded)
	metrics.RecordBatches(cfg.Job, ds.Dataset, ds.Batches)
	log.Printf("dataset=%s loaded=%d batches=%d table=%s elapsed=%s",
		ds.Dataset, loaded, ds.Batches, def.Name, time.Since(loadStart).Truncate(time.Millisecond))
	return nil
}

func fillCleanStats(ds *DatasetSummary, rep *clean.Report) {
	ds.Attempted = rep.Attempted
	ds.Accepted = rep.Accepted
	ds.Discarded = rep.Discarded
	ds.Reasons = rep.Reasons
}

func recordCleanMetrics(job string, ds *DatasetSummary) {
	metrics.RecordRows(job, ds.Dataset, "accepted", int64(ds.Accepted))
	metrics.RecordRows(job, ds.Dataset, "discarded", int64(ds.Discarded))
	metrics.RecordDiscards(job, ds.Dataset, ds.Reasons)
}

// IsStructural reports whether err is a structural run failure rather
// than a configuration problem.
func IsStructural(err error) bool {
	var se *StageError
	return errors.As(err, &se)
}

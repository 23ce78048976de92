package storage

import (
	"context"
	"errors"
	"testing"
)

func feed(rows [][]any) <-chan []any {
	ch := make(chan []any, len(rows))
	for _, r := range rows {
		ch <- r
	}
	close(ch)
	return ch
}

func TestLoadBatchesSplitsAndFlushes(t *testing.T) {
	t.Parallel()

	rows := [][]any{{1}, {2}, {3}, {4}, {5}}
	var calls [][]int
	copyFn := func(_ context.Context, _ []string, batch [][]any) (int64, error) {
		ids := make([]int, len(batch))
		for i, r := range batch {
			ids[i] = r[0].(int)
		}
		calls = append(calls, ids)
		return int64(len(batch)), nil
	}

	total, err := LoadBatches(context.Background(), []string{"id"}, feed(rows), 2, copyFn)
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(calls) != 3 || len(calls[0]) != 2 || len(calls[2]) != 1 {
		t.Fatalf("batches = %v", calls)
	}
}

func TestLoadBatchesStopsOnCopyError(t *testing.T) {
	t.Parallel()

	boom := errors.New("copy failed")
	copyFn := func(context.Context, []string, [][]any) (int64, error) { return 0, boom }

	_, err := LoadBatches(context.Background(), []string{"id"}, feed([][]any{{1}}), 1, copyFn)
	if !errors.Is(err, boom) {
		t.Fatalf("want copy error, got %v", err)
	}
}

func TestLoadBatchesRejectsBadArgs(t *testing.T) {
	t.Parallel()

	if _, err := LoadBatches(context.Background(), nil, feed(nil), 0, nil); err == nil {
		t.Fatal("want error for batchSize=0")
	}
	if _, err := LoadBatches(context.Background(), nil, feed(nil), 1, nil); err == nil {
		t.Fatal("want error for nil copyFn")
	}
}

func TestLoadBatchesHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := make(chan []any) // never closed, never fed
	_, err := LoadBatches(ctx, []string{"id"}, in, 1,
		func(context.Context, []string, [][]any) (int64, error) { return 0, nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

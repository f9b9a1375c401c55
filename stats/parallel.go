package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zalepa/vacstat/vacancy"
)

// cancelCheckEvery is how many records a shard processes between context
// checks.
const cancelCheckEvery = 4096

// AggregateParallel splits records into contiguous shards, accumulates them
// concurrently and merges the partial tables in shard order before the same
// post-processing as Aggregate. The result equals Aggregate's up to
// floating-point summation order. workers <= 1 runs Aggregate directly.
func AggregateParallel(ctx context.Context, records []vacancy.Record, filter string, workers int, opts ...Option) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if workers <= 1 || len(records) < 2 {
		return Aggregate(records, filter, opts...)
	}
	if workers > len(records) {
		workers = len(records)
	}

	chunk := (len(records) + workers - 1) / workers
	parts := make([]*tables, workers)
	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		lo := min(i*chunk, len(records))
		hi := min(lo+chunk, len(records))
		g.Go(func() error {
			t := newTables()
			for j, rec := range records[lo:hi] {
				if j%cancelCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				t.add(rec, filter)
			}
			parts[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newTables()
	for _, p := range parts {
		merged.merge(p)
	}
	return merged.report(filter, buildOptions(opts)), nil
}

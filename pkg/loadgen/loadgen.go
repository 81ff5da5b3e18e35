// Package loadgen fires bursts of observation probes at the emulated
// services, the way a misbehaving client would, so throttling and outage
// scenarios have traffic to act on.
package loadgen

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/getchaosd/chaosd/pkg/probe"
)

// Config shapes a burst run.
type Config struct {
	// Scenario labels metrics for this run.
	Scenario string
	// Concurrency is the worker pool size. Default 10.
	Concurrency int
	// BatchSize is the number of probes fired per batch. Default 20.
	BatchSize int
	// Batches is the number of batches to run. Default 5.
	Batches int
	// Interval is the pause between batches. Default 1s.
	Interval time.Duration
	// Metrics receives per-probe observations when set.
	Metrics *Metrics
	// OnBatch is called after each batch with its number (1-based) and the
	// batch aggregate. Used for per-batch console output.
	OnBatch func(n int, batch probe.Stats)
}

func (c *Config) applyDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 10
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 20
	}
	if c.Batches <= 0 {
		c.Batches = 5
	}
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
}

// Run executes the configured burst against fn and returns the overall
// aggregate. It stops early when ctx is cancelled, returning the stats
// collected so far along with the context error.
func Run(ctx context.Context, cfg Config, fn probe.Func) (probe.Stats, error) {
	cfg.applyDefaults()

	var total probe.Stats

	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return total, err
	}
	defer pool.Release()

	for n := 1; n <= cfg.Batches; n++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		var (
			mu    sync.Mutex
			batch probe.Stats
			wg    sync.WaitGroup
		)
		for i := 0; i < cfg.BatchSize; i++ {
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				r := fn(ctx)
				if cfg.Metrics != nil {
					cfg.Metrics.Observe(cfg.Scenario, r)
				}
				mu.Lock()
				batch.Record(r)
				mu.Unlock()
			})
			if submitErr != nil {
				wg.Done()
				mu.Lock()
				batch.Record(probe.Result{Status: probe.StatusError, Err: submitErr})
				mu.Unlock()
			}
		}
		wg.Wait()

		if cfg.OnBatch != nil {
			cfg.OnBatch(n, batch)
		}
		total.Merge(batch)

		if n < cfg.Batches {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-time.After(cfg.Interval):
			}
		}
	}

	return total, nil
}

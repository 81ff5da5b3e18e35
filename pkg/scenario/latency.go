package scenario

import (
	"context"
	"time"

	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/probe"
)

func init() {
	Register(&Scenario{
		Name:        "latency",
		Description: "Add network latency through the effects endpoint and measure the slowdown",
		Run:         runLatency,
	})
}

func runLatency(ctx context.Context, env *Env) error {
	delay := env.Opts.Latency
	if delay <= 0 {
		delay = 2 * time.Second
	}

	fn := env.Prober.ForService(env.service())

	env.Section("BASELINE: measuring latency without chaos")
	baseline := measure(ctx, env, fn, 3)
	env.Printf("  baseline: min=%s max=%s avg=%s",
		baseline.MinLatency().Round(time.Millisecond),
		baseline.MaxLatency().Round(time.Millisecond),
		baseline.MeanLatency().Round(time.Millisecond))

	env.Section("CHAOS: adding network latency")
	env.Printf("  latency: %s", delay)
	if err := env.Client.SetEffects(ctx, faults.Effects{Latency: int(delay.Milliseconds())}); err != nil {
		return err
	}
	// Effects are not fault IDs and sit outside the lifecycle manager, so
	// restore them here whatever happens below.
	defer func() {
		restoreCtx, cancel := context.WithTimeout(context.Background(), faults.DefaultTimeout)
		defer cancel()
		if err := env.Client.SetEffects(restoreCtx, faults.Effects{}); err != nil {
			env.Printf("warning: could not reset network effects: %v", err)
		}
	}()

	env.Section("IMPACT: measuring latency under chaos")
	slow := measure(ctx, env, fn, 3)
	env.Printf("  degraded: min=%s max=%s avg=%s",
		slow.MinLatency().Round(time.Millisecond),
		slow.MaxLatency().Round(time.Millisecond),
		slow.MeanLatency().Round(time.Millisecond))
	if base, deg := baseline.MeanLatency(), slow.MeanLatency(); base > 0 && deg > base {
		env.Printf("  slowdown: %.1fx", float64(deg)/float64(base))
	}

	env.Section("RECOVERY: removing network latency")
	if err := env.Client.SetEffects(ctx, faults.Effects{}); err != nil {
		env.Printf("  reset failed (deferred retry pending): %v", err)
	} else {
		env.Printf("  effects reset")
	}

	restored := measure(ctx, env, fn, 3)
	env.Printf("  restored: avg=%s", restored.MeanLatency().Round(time.Millisecond))
	return nil
}

func measure(ctx context.Context, env *Env, fn probe.Func, n int) probe.Stats {
	var stats probe.Stats
	for i := 1; i <= n; i++ {
		r := fn(ctx)
		stats.Record(r)
		env.Printf("  probe %d: %s (%s)", i, statusMark(r.Status), r.Latency.Round(time.Millisecond))
		if ctx.Err() != nil {
			break
		}
	}
	return stats
}

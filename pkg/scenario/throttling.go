package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/loadgen"
	"github.com/getchaosd/chaosd/pkg/probe"
)

func init() {
	Register(&Scenario{
		Name:        "api-throttling",
		Description: "Inject rate-limit errors, hammer the API with burst traffic, then demonstrate backoff",
		Run:         runAPIThrottling,
	})
}

func runAPIThrottling(ctx context.Context, env *Env) error {
	svc := env.service()
	region := env.region()

	rate := env.Opts.Rate
	if rate <= 0 {
		rate = 10
	}
	batches := env.Opts.Batches
	if batches <= 0 {
		batches = 5
	}

	env.Section("CHAOS: injecting API throttling for " + svc + " in " + region)
	env.Printf("  simulated limit: %d requests/second", rate)

	// Hard throttle plus a lower-probability "warning" fault, so a share of
	// requests sees the approaching-limit message instead of a hard 429.
	_, err := env.Manager.Inject(ctx, faults.FaultSpec{
		Service:     svc,
		Region:      region,
		Probability: 0.8,
		Error: &faults.ErrorSpec{
			StatusCode: 429,
			Code:       ThrottleCode(svc),
			Message:    fmt.Sprintf("Rate exceeded. Maximum allowed: %d requests per second.", rate),
		},
	})
	if err != nil {
		return err
	}
	env.Printf("  throttling fault injected")

	_, err = env.Manager.Inject(ctx, faults.FaultSpec{
		Service:     svc,
		Region:      region,
		Probability: 0.2,
		Error: &faults.ErrorSpec{
			StatusCode: 429,
			Code:       ThrottleCode(svc),
			Message:    "Approaching rate limit. Consider implementing backoff.",
		},
	})
	if err != nil {
		return err
	}
	env.Printf("  warning fault injected")

	env.Section("IMPACT: burst traffic")
	fn := env.Prober.ForService(svc)
	total, err := loadgen.Run(ctx, loadgen.Config{
		Scenario:    "api-throttling",
		Concurrency: rate,
		BatchSize:   rate * 2, // deliberately exceed the simulated limit
		Batches:     batches,
		Interval:    env.interval(),
		Metrics:     env.Metrics,
		OnBatch: func(n int, batch probe.Stats) {
			env.Printf("  batch %d: %s", n, batch.String())
		},
	}, fn)
	if err != nil {
		return err
	}

	env.Printf("\nburst summary:")
	env.Printf("  total requests: %d", total.Total)
	env.Printf("  ok:        %4d (%.1f%%)", total.OK, total.SuccessRate()*100)
	env.Printf("  throttled: %4d (%.1f%%)", total.Throttled, pct(total.Throttled, total.Total))
	env.Printf("  other:     %4d", total.Total-total.OK-total.Throttled)

	env.Section("BACKOFF: retrying with exponential backoff")
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 15 * time.Second

	attempt := 0
	retryErr := backoff.Retry(func() error {
		attempt++
		r := fn(ctx)
		env.Printf("  attempt %d: %s (HTTP %d)", attempt, statusMark(r.Status), r.HTTPCode)
		if r.Status == probe.StatusOK {
			return nil
		}
		return fmt.Errorf("throttled (HTTP %d)", r.HTTPCode)
	}, backoff.WithContext(bo, ctx))
	if retryErr != nil {
		env.Printf("  gave up after %d attempts: %v", attempt, retryErr)
		env.Printf("  (expected with a %.0f%% throttle probability; recovery follows)", 80.0)
	} else {
		env.Printf("  succeeded on attempt %d", attempt)
	}

	env.Section("RECOVERY: removing throttling")
	env.reportRecovery(env.Manager.RecoverAll(ctx))
	return nil
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

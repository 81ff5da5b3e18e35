package scenario

import (
	"context"
	"time"

	"github.com/getchaosd/chaosd/pkg/faults"
)

func init() {
	Register(&Scenario{
		Name:        "service-outage",
		Description: "Take one service down with error responses and watch callers fail",
		Run:         runServiceOutage,
	})
}

func runServiceOutage(ctx context.Context, env *Env) error {
	svc := env.service()
	region := env.region()

	status := env.Opts.ErrorCode
	if status == 0 {
		status = 503
	}
	probability := env.Opts.Probability
	if probability == 0 {
		probability = 1.0
	}

	env.Section("CHAOS: injecting " + svc + " outage in " + region)
	env.Printf("  service:     %s", svc)
	env.Printf("  region:      %s", region)
	env.Printf("  probability: %.0f%%", probability*100)
	env.Printf("  error:       HTTP %d (%s)", status, OutageCode(svc, status))

	id, err := env.Manager.Inject(ctx, faults.FaultSpec{
		Service:     svc,
		Region:      region,
		Probability: probability,
		Error: &faults.ErrorSpec{
			StatusCode: status,
			Code:       OutageCode(svc, status),
		},
	})
	if err != nil {
		return err
	}
	env.Printf("  fault injected (id %s)", id)

	env.Section("IMPACT: probing " + svc)
	fn := env.Prober.ForService(svc)
	for i := 1; i <= 5; i++ {
		r := fn(ctx)
		env.Printf("  attempt %d: %-9s (HTTP %d, %s)", i, statusMark(r.Status), r.HTTPCode, r.Latency.Round(time.Millisecond))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(env.interval()):
		}
	}

	if active, err := env.Client.ListFaults(ctx); err == nil {
		env.Printf("\nactive faults: %d", len(active))
		for _, f := range active {
			env.Printf("  - %s  %s  p=%.2f", f.ID, f.Target(), f.Probability)
		}
	}

	env.Section("RECOVERY: removing " + svc + " outage")
	if err := env.Manager.RecoverOne(ctx, id); err != nil {
		env.Printf("  targeted removal failed: %v", err)
		env.reportRecovery(env.Manager.RecoverAll(ctx))
	} else {
		env.Printf("  fault %s removed", id)
	}

	r := fn(ctx)
	env.Printf("  verification probe: %s (HTTP %d)", statusMark(r.Status), r.HTTPCode)
	return nil
}

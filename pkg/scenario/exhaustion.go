package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/getchaosd/chaosd/pkg/faults"
)

func init() {
	Register(&Scenario{
		Name:        "resource-exhaustion",
		Description: "Exhaust a service quota (throughput, concurrency, storage) and watch calls degrade",
		Run:         runResourceExhaustion,
	})
}

func runResourceExhaustion(ctx context.Context, env *Env) error {
	svc := env.service()
	if svc == "s3" && env.Opts.Service == "" {
		svc = "dynamodb" // the classic exhaustion case
	}
	resource := env.Opts.Resource
	if resource == "" {
		resource = "throughput"
	}

	spec, ok := ResourceError(svc, resource)
	if !ok {
		types := ResourceTypes(svc)
		if types == nil {
			return fmt.Errorf("no exhaustion profile for service %q", svc)
		}
		return fmt.Errorf("service %q has no %q exhaustion; available: %s",
			svc, resource, strings.Join(types, ", "))
	}

	env.Section("CHAOS: injecting " + resource + " exhaustion for " + svc)
	env.Printf("  error: HTTP %d %s", spec.StatusCode, spec.Code)
	env.Printf("  %q", spec.Message)

	// Primary fault: the quota is hit most of the time.
	if _, err := env.Manager.Inject(ctx, faults.FaultSpec{
		Service:     svc,
		Region:      env.region(),
		Probability: 0.8,
		Error:       &spec,
	}); err != nil {
		return err
	}
	env.Printf("  primary fault injected (80%%)")

	// Secondary fault: occasional slow-downs even when under the quota.
	secondary := spec
	secondary.Message = "Request rate is elevated; expect intermittent failures."
	if _, err := env.Manager.Inject(ctx, faults.FaultSpec{
		Service:     svc,
		Region:      env.region(),
		Probability: 0.3,
		Error:       &secondary,
	}); err != nil {
		return err
	}
	env.Printf("  secondary fault injected (30%%)")

	env.Section("IMPACT: probing under exhaustion")
	fn := env.Prober.ForService(svc)
	failures := 0
	for i := 1; i <= 10; i++ {
		r := fn(ctx)
		env.Printf("  attempt %2d: %-9s (HTTP %d)", i, statusMark(r.Status), r.HTTPCode)
		if r.HTTPCode != 0 && r.HTTPCode >= 400 {
			failures++
		}
		if err := pause(ctx, env.interval()); err != nil {
			return err
		}
	}
	env.Printf("\n  %d/10 attempts failed", failures)

	env.Section("RECOVERY: releasing the quota")
	env.reportRecovery(env.Manager.RecoverAll(ctx))
	return nil
}

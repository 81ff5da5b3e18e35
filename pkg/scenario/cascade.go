package scenario

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/getchaosd/chaosd/pkg/faults"
)

func init() {
	Register(&Scenario{
		Name:        "cascade-failure",
		Description: "Fail one service and let the failure propagate through its dependents in phases",
		Run:         runCascadeFailure,
	})
}

func runCascadeFailure(ctx context.Context, env *Env) error {
	initial := env.service()
	region := env.region()
	deps := env.Opts.Dependencies
	if len(deps) == 0 {
		deps = map[string][]string{
			"s3":       {"lambda", "cloudfront"},
			"dynamodb": {"lambda", "apigateway"},
			"lambda":   {"sqs", "sns"},
		}
	}

	env.Section("CHAOS: cascade failure starting from " + initial)

	env.Printf("\n[phase 1] initial failure: %s (100%%)", initial)
	if err := injectCascadeFault(ctx, env, initial, region, 1.0, 503); err != nil {
		return err
	}

	firstLevel := deps[initial]
	if len(firstLevel) > 0 {
		env.Printf("\n[phase 2] dependent services failing: %s (70%%)", strings.Join(firstLevel, ", "))
		for _, svc := range firstLevel {
			if err := pause(ctx, env.interval()); err != nil {
				return err
			}
			if err := injectCascadeFault(ctx, env, svc, region, 0.7, 500); err != nil {
				env.Printf("    could not fault %s: %v", svc, err)
			}
		}
	}

	secondLevel := map[string]bool{}
	for _, svc := range firstLevel {
		for _, dep := range deps[svc] {
			secondLevel[dep] = true
		}
	}
	if len(secondLevel) > 0 {
		names := make([]string, 0, len(secondLevel))
		for svc := range secondLevel {
			names = append(names, svc)
		}
		sort.Strings(names)

		env.Printf("\n[phase 3] secondary dependencies failing: %s (50%%)", strings.Join(names, ", "))
		for _, svc := range names {
			if err := pause(ctx, env.interval()); err != nil {
				return err
			}
			if err := injectCascadeFault(ctx, env, svc, region, 0.5, 503); err != nil {
				env.Printf("    could not fault %s: %v", svc, err)
			}
		}
	}

	env.Section("CASCADE: " + initial)
	env.Printf("  %s (100%% failure)", initial)
	for i, svc := range firstLevel {
		branch := "├──"
		if i == len(firstLevel)-1 {
			branch = "└──"
		}
		env.Printf("    %s %s (70%% failure)", branch, svc)
		for j, dep := range deps[svc] {
			inner := "├──"
			if j == len(deps[svc])-1 {
				inner = "└──"
			}
			env.Printf("    │   %s %s (50%% failure)", inner, dep)
		}
	}

	env.Section("IMPACT: probing the blast radius")
	seen := append([]string{initial}, firstLevel...)
	for svc := range secondLevel {
		seen = append(seen, svc)
	}
	for _, svc := range seen {
		r := env.Prober.ForService(svc)(ctx)
		env.Printf("  %-12s %s (HTTP %d)", svc, statusMark(r.Status), r.HTTPCode)
	}

	env.Section("RECOVERY: unwinding the cascade")
	env.reportRecovery(env.Manager.RecoverAll(ctx))
	return nil
}

func injectCascadeFault(ctx context.Context, env *Env, service, region string, probability float64, status int) error {
	id, err := env.Manager.Inject(ctx, faults.FaultSpec{
		Service:     service,
		Region:      region,
		Probability: probability,
		Error: &faults.ErrorSpec{
			StatusCode: status,
			Code:       OutageCode(service, status),
		},
	})
	if err != nil {
		return err
	}
	env.Printf("    fault injected in %s (id %s)", service, id)
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

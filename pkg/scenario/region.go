package scenario

import (
	"context"

	"github.com/getchaosd/chaosd/pkg/faults"
)

func init() {
	Register(&Scenario{
		Name:        "region-outage",
		Description: "Fail every service in one region and compare against a healthy region",
		Run:         runRegionOutage,
	})
}

func runRegionOutage(ctx context.Context, env *Env) error {
	region := env.region()
	secondary := env.Opts.SecondaryRegion
	if secondary == "" {
		secondary = "us-east-2"
		if region == secondary {
			secondary = "us-east-1"
		}
	}
	services := env.services()

	env.Section("CHAOS: failing region " + region)
	for _, svc := range services {
		id, err := env.Manager.Inject(ctx, faults.FaultSpec{
			Service:     svc,
			Region:      region,
			Probability: 1.0,
			Error: &faults.ErrorSpec{
				StatusCode: 503,
				Code:       OutageCode(svc, 503),
			},
		})
		if err != nil {
			env.Printf("  could not fault %s: %v", svc, err)
			continue
		}
		env.Printf("  %s down in %s (id %s)", svc, region, id)
	}

	env.Section("IMPACT: failed region vs healthy region")
	failed := env.ProberFor(region)
	healthy := env.ProberFor(secondary)
	for _, svc := range services {
		rf := failed.ForService(svc)(ctx)
		rh := healthy.ForService(svc)(ctx)
		env.Printf("  %-12s %s: %-7s  %s: %s",
			svc, region, statusMark(rf.Status), secondary, statusMark(rh.Status))
		if err := pause(ctx, env.interval()); err != nil {
			return err
		}
	}
	env.Printf("\n  traffic should fail over to %s while %s is down", secondary, region)

	env.Section("RECOVERY: restoring region " + region)
	env.reportRecovery(env.Manager.RecoverAll(ctx))

	r := failed.S3ListBuckets(ctx)
	env.Printf("  verification probe in %s: %s (HTTP %d)", region, statusMark(r.Status), r.HTTPCode)
	return nil
}

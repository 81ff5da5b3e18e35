package scenario

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/probe"
)

func init() {
	Register(&Scenario{
		Name:        "network-partition",
		Description: "Simulate a partition with request timeouts across services and measure the fallout",
		Run:         runNetworkPartition,
	})
}

func runNetworkPartition(ctx context.Context, env *Env) error {
	region := env.region()
	services := env.services()

	env.Section("CHAOS: simulating network partition")
	injected := 0
	for _, svc := range services {
		_, err := env.Manager.Inject(ctx, faults.FaultSpec{
			Service:     svc,
			Region:      region,
			Probability: 0.5,
			Error: &faults.ErrorSpec{
				StatusCode: 504,
				Code:       "RequestTimeout",
			},
		})
		if err != nil {
			env.Printf("  could not partition %s: %v", svc, err)
			continue
		}
		injected++
	}
	if injected == 0 {
		env.Printf("  no faults injected, aborting")
		return nil
	}
	env.Printf("  partition simulated for %d service(s), 50%% timeout probability", injected)

	env.Section("IMPACT: sequential probes")
	var sequential probe.Stats
	for i := 1; i <= 5; i++ {
		r := env.Prober.S3ListBuckets(ctx)
		sequential.Record(r)
		env.Printf("  attempt %d: %-7s (%s)", i, statusMark(r.Status), r.Latency.Round(time.Millisecond))
		if err := pause(ctx, env.interval()); err != nil {
			return err
		}
	}
	env.Printf("  latency: min=%s max=%s avg=%s",
		sequential.MinLatency().Round(time.Millisecond),
		sequential.MaxLatency().Round(time.Millisecond),
		sequential.MeanLatency().Round(time.Millisecond))

	env.Section("IMPACT: 10 concurrent probes")
	var (
		mu         sync.Mutex
		concurrent probe.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 10; i++ {
		svc := services[i%len(services)]
		g.Go(func() error {
			r := env.Prober.ForService(svc)(gctx)
			mu.Lock()
			concurrent.Record(r)
			mu.Unlock()
			if env.Metrics != nil {
				env.Metrics.Observe("network-partition", r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	env.Printf("  %s", concurrent.String())

	env.Section("RECOVERY: healing the partition")
	env.reportRecovery(env.Manager.RecoverAll(ctx))
	return nil
}

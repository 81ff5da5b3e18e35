// Package faults talks to the chaos API of a locally running cloud
// emulator: injecting faults, removing them, and configuring network
// effects.
//
// Client is a thin HTTP client over the four chaos API calls. Manager is
// the fault lifecycle manager: it records every fault ID this process
// injects and guarantees a best-effort cleanup pass on normal completion
// or interruption, falling back to a bulk-clear when targeted removal is
// incomplete.
//
//	client := faults.NewClient("http://localhost:4566")
//	mgr := faults.NewManager(client, faults.WithLogger(logger))
//	stop := mgr.InstallCleanupHandler()
//	defer stop()
//	defer mgr.Cleanup()
//
//	id, err := mgr.Inject(ctx, faults.FaultSpec{
//	    Service:     "s3",
//	    Region:      "us-east-1",
//	    Probability: 1.0,
//	    Error:       &faults.ErrorSpec{StatusCode: 503, Code: "ServiceUnavailable"},
//	})
package faults

// Package scenario contains the chaos scenarios chaosd can run: each one
// injects faults through the lifecycle manager, observes the effect on the
// emulated services, and recovers. Scenarios register themselves by name;
// there is no type hierarchy, just a table of named run functions.
package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/loadgen"
	"github.com/getchaosd/chaosd/pkg/probe"
)

// Scenario is one named chaos exercise.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

var (
	mu       sync.Mutex
	registry = map[string]*Scenario{}
)

// Register adds a scenario to the registry. It panics on duplicate names;
// registration happens in init functions only.
func Register(s *Scenario) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[s.Name]; dup {
		panic("scenario: duplicate registration of " + s.Name)
	}
	registry[s.Name] = s
}

// Lookup returns the scenario registered under name.
func Lookup(name string) (*Scenario, bool) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := registry[name]
	return s, ok
}

// All returns every registered scenario, sorted by name.
func All() []*Scenario {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Scenario, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Options carries the per-run knobs shared across scenarios. Scenarios
// read what they need and ignore the rest.
type Options struct {
	Service         string
	Region          string
	SecondaryRegion string
	Probability     float64
	ErrorCode       int
	Latency         time.Duration
	Resource        string
	Rate            int
	Batches         int
	Interval        time.Duration
	Services        []string
	Dependencies    map[string][]string
}

// Env is everything a scenario run needs. One Env drives one run.
type Env struct {
	Manager  *faults.Manager
	Client   *faults.Client
	Prober   *probe.Prober
	Metrics  *loadgen.Metrics
	Logger   *slog.Logger
	Out      io.Writer
	Endpoint string
	RunID    string
	Opts     Options
}

// ProberFor returns a prober scoped to another region, for failover
// comparisons.
func (e *Env) ProberFor(region string) *probe.Prober {
	return probe.New(e.Endpoint, probe.WithRegion(region))
}

// Printf writes formatted scenario output.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format+"\n", args...)
}

// Section writes a scenario phase header.
func (e *Env) Section(title string) {
	fmt.Fprintf(e.Out, "\n%s\n%s\n", title, strings.Repeat("=", 50))
}

// service returns the selected service, defaulting to s3.
func (e *Env) service() string {
	if e.Opts.Service != "" {
		return e.Opts.Service
	}
	return "s3"
}

// region returns the selected region, defaulting to us-east-1.
func (e *Env) region() string {
	if e.Opts.Region != "" {
		return e.Opts.Region
	}
	return "us-east-1"
}

// interval returns the pacing delay between observation probes.
func (e *Env) interval() time.Duration {
	if e.Opts.Interval > 0 {
		return e.Opts.Interval
	}
	return time.Second
}

// services returns the multi-service set for scenarios that fault several
// services at once.
func (e *Env) services() []string {
	if len(e.Opts.Services) > 0 {
		return e.Opts.Services
	}
	return []string{"s3", "dynamodb", "lambda", "sqs", "sns"}
}

// reportRecovery prints the outcome of a RecoverAll pass. Removal failures
// are reported, never raised: recovery is best-effort.
func (e *Env) reportRecovery(rep faults.Report) {
	switch {
	case rep.Attempted == 0:
		e.Printf("no faults to remove")
	case rep.BulkErr != nil:
		e.Printf("removed %d/%d fault(s); bulk-clear failed: %v", rep.Removed, rep.Attempted, rep.BulkErr)
		e.Printf("warning: the emulator may retain stale faults")
	case rep.BulkCleared:
		e.Printf("removed %d/%d fault(s) individually, cleared the rest in bulk", rep.Removed, rep.Attempted)
	default:
		e.Printf("removed %d fault(s)", rep.Removed)
	}
}

// statusMark renders a probe outcome the way the scenario transcripts do.
func statusMark(s probe.Status) string {
	switch s {
	case probe.StatusOK:
		return "ok"
	case probe.StatusThrottled:
		return "THROTTLED"
	case probe.StatusOutage:
		return "OUTAGE"
	case probe.StatusTimeout:
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

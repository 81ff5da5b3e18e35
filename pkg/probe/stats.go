package probe

import (
	"fmt"
	"time"
)

// Stats aggregates probe results. Not safe for concurrent use; callers
// firing parallel probes aggregate under their own lock (see loadgen).
type Stats struct {
	Total     int
	OK        int
	Throttled int
	Outage    int
	Timeout   int
	Errors    int

	latencies []time.Duration
}

// Record adds one result to the aggregate.
func (s *Stats) Record(r Result) {
	s.Total++
	switch r.Status {
	case StatusOK:
		s.OK++
	case StatusThrottled:
		s.Throttled++
	case StatusOutage:
		s.Outage++
	case StatusTimeout:
		s.Timeout++
	default:
		s.Errors++
	}
	s.latencies = append(s.latencies, r.Latency)
}

// Merge folds another aggregate into this one.
func (s *Stats) Merge(other Stats) {
	s.Total += other.Total
	s.OK += other.OK
	s.Throttled += other.Throttled
	s.Outage += other.Outage
	s.Timeout += other.Timeout
	s.Errors += other.Errors
	s.latencies = append(s.latencies, other.latencies...)
}

// SuccessRate returns the fraction of probes that came back OK, in [0,1].
func (s *Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.OK) / float64(s.Total)
}

// MinLatency returns the smallest observed latency.
func (s *Stats) MinLatency() time.Duration {
	var min time.Duration
	for i, l := range s.latencies {
		if i == 0 || l < min {
			min = l
		}
	}
	return min
}

// MaxLatency returns the largest observed latency.
func (s *Stats) MaxLatency() time.Duration {
	var max time.Duration
	for _, l := range s.latencies {
		if l > max {
			max = l
		}
	}
	return max
}

// MeanLatency returns the average observed latency.
func (s *Stats) MeanLatency() time.Duration {
	if len(s.latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, l := range s.latencies {
		sum += l
	}
	return sum / time.Duration(len(s.latencies))
}

// String renders a one-line summary for scenario output.
func (s *Stats) String() string {
	return fmt.Sprintf("total=%d ok=%d throttled=%d outage=%d timeout=%d err=%d avg=%s",
		s.Total, s.OK, s.Throttled, s.Outage, s.Timeout, s.Errors, s.MeanLatency().Round(time.Millisecond))
}

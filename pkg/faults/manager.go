package faults

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/getchaosd/chaosd/pkg/logging"
)

// cleanupTimeout bounds the whole shutdown recovery pass. Individual calls
// are already bounded by the client timeout; this is the outer limit.
const cleanupTimeout = 30 * time.Second

// Report summarizes one RecoverAll pass.
type Report struct {
	// Attempted is the number of fault IDs that were in the set when the
	// pass started.
	Attempted int
	// Removed is the number of targeted deletions that succeeded.
	Removed int
	// BulkCleared records whether the bulk-clear fallback was issued.
	BulkCleared bool
	// BulkErr is the error from the bulk-clear call, if it was issued and
	// failed. In that case the emulator may retain stale faults even though
	// the in-memory set is empty.
	BulkErr error
}

// Clean reports whether every injected fault is known to be removed from
// the emulator.
func (r Report) Clean() bool {
	if r.Attempted == r.Removed {
		return true
	}
	return r.BulkCleared && r.BulkErr == nil
}

// Manager owns the set of fault IDs injected by this process and guarantees
// their removal on normal completion, explicit recovery, or interruption.
//
// One goroutine drives Inject/RecoverOne/RecoverAll at a time; the only
// concurrent access is the signal-triggered cleanup, which is why the ID
// set is guarded by a mutex at all.
type Manager struct {
	client *Client
	logger *slog.Logger

	mu  sync.Mutex
	ids []string

	cleanupOnce sync.Once
	// exit is called after signal-triggered cleanup. Replaceable in tests.
	exit func(code int)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for cleanup reporting.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a fault lifecycle manager backed by the given client.
func NewManager(client *Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		client: client,
		logger: logging.Nop(),
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Inject sends a fault spec to the chaos API and records the issued ID for
// later cleanup. On any failure nothing is recorded and an *InjectionError
// is returned.
func (m *Manager) Inject(ctx context.Context, spec FaultSpec) (string, error) {
	fault, err := m.client.AddFault(ctx, spec)
	if err != nil {
		return "", &InjectionError{Err: err}
	}

	m.mu.Lock()
	m.ids = append(m.ids, fault.ID)
	m.mu.Unlock()

	m.logger.Debug("fault injected", "id", fault.ID, "target", fault.Target())
	return fault.ID, nil
}

// RecoverOne issues a targeted deletion for one fault ID. On success the ID
// is removed from the managed set; on failure a *RemovalError is returned
// and the set is unchanged.
func (m *Manager) RecoverOne(ctx context.Context, id string) error {
	if err := m.client.DeleteFault(ctx, id); err != nil {
		return &RemovalError{ID: id, Err: err}
	}

	m.mu.Lock()
	for i, have := range m.ids {
		if have == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.logger.Debug("fault removed", "id", id)
	return nil
}

// RecoverAll attempts a targeted deletion for every managed fault ID. If
// any deletion fails it falls back to a single bulk-clear and treats that
// as authoritative. The in-memory set is empty when RecoverAll returns,
// whatever the outcome: cleanup is best-effort and never re-attempted, so
// a failed bulk-clear can leave stale faults on the emulator (reported via
// Report.BulkErr).
//
// An empty set is a no-op: no HTTP calls are issued.
func (m *Manager) RecoverAll(ctx context.Context) Report {
	m.mu.Lock()
	ids := m.ids
	m.ids = nil
	m.mu.Unlock()

	report := Report{Attempted: len(ids)}
	if len(ids) == 0 {
		return report
	}

	for _, id := range ids {
		if err := m.client.DeleteFault(ctx, id); err != nil {
			m.logger.Debug("targeted fault removal failed", "id", id, "error", err)
			continue
		}
		report.Removed++
	}

	if report.Removed < report.Attempted {
		report.BulkCleared = true
		if err := m.client.ClearFaults(ctx); err != nil {
			report.BulkErr = err
			m.logger.Warn("bulk-clear failed, emulator may retain stale faults", "error", err)
		}
	}

	if report.Clean() {
		m.logger.Info("faults cleaned up", "count", report.Attempted)
	}
	return report
}

// Active returns a copy of the currently managed fault IDs, in injection
// order.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Cleanup runs the shutdown recovery pass at most once, however many of the
// registered paths (normal completion, SIGINT, SIGTERM) reach it. It never
// returns an error: cleanup failures are logged, not raised, because this
// commonly runs on the way out of the process.
func (m *Manager) Cleanup() Report {
	var report Report
	m.cleanupOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		report = m.RecoverAll(ctx)
	})
	return report
}

// InstallCleanupHandler registers SIGINT/SIGTERM handling that runs the
// same Cleanup path as normal completion, synchronously, before exiting
// with a non-zero status. The returned stop function releases the handler;
// callers typically also defer Cleanup for the normal path:
//
//	stop := mgr.InstallCleanupHandler()
//	defer stop()
//	defer mgr.Cleanup()
func (m *Manager) InstallCleanupHandler() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig, ok := <-ch
		if !ok {
			return
		}
		m.logger.Warn("interrupted, removing injected faults", "signal", sig.String())
		m.Cleanup()
		m.exit(1)
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
	}
}

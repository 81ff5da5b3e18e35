// Package monitor implements the live chaos dashboard: a terminal UI that
// polls the emulator's chaos API and probes the emulated services, showing
// active faults and service health side by side.
package monitor

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/probe"
)

// DefaultInterval is the polling cadence when none is configured.
const DefaultInterval = 2 * time.Second

// Config selects what the dashboard watches.
type Config struct {
	Endpoint string
	Region   string
	Services []string
	Interval time.Duration
}

// ServiceStatus is one service's latest probe outcome.
type ServiceStatus struct {
	Name   string
	Result probe.Result
}

// Snapshot is one complete poll of the emulator.
type Snapshot struct {
	Reachable bool
	Err       error
	Faults    []faults.Fault
	Effects   faults.Effects
	Services  []ServiceStatus
	Taken     time.Time
}

type (
	tickMsg     time.Time
	snapshotMsg Snapshot
)

// Model is the bubbletea model behind the dashboard.
type Model struct {
	cfg    Config
	client *faults.Client
	prober *probe.Prober

	width   int
	height  int
	updates int
	current Snapshot
	history map[string]*probe.Stats
	spin    spinner.Model
}

// New builds a dashboard model for the given emulator.
func New(cfg Config) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if len(cfg.Services) == 0 {
		cfg.Services = []string{"s3", "dynamodb", "lambda", "sqs", "sns"}
	}
	return Model{
		cfg:     cfg,
		client:  faults.NewClient(cfg.Endpoint),
		prober:  probe.New(cfg.Endpoint, probe.WithRegion(cfg.Region)),
		history: make(map[string]*probe.Stats),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.tick(), m.spin.Tick)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// poll gathers one snapshot off the UI goroutine.
func (m Model) poll() tea.Cmd {
	client, prober, services := m.client, m.prober, m.cfg.Services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), faults.DefaultTimeout)
		defer cancel()

		snap := Snapshot{Taken: time.Now()}

		active, err := client.ListFaults(ctx)
		if err != nil {
			snap.Err = err
			return snapshotMsg(snap)
		}
		snap.Reachable = true
		sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
		snap.Faults = active

		if effects, err := client.GetEffects(ctx); err == nil {
			snap.Effects = effects
		}

		for _, svc := range services {
			snap.Services = append(snap.Services, ServiceStatus{
				Name:   svc,
				Result: prober.ForService(svc)(ctx),
			})
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())

	case spinner.TickMsg:
		// The spinner only shows before the first successful poll.
		if m.current.Taken.IsZero() || !m.current.Reachable {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case snapshotMsg:
		m.updates++
		m.current = Snapshot(msg)
		for _, s := range m.current.Services {
			st, ok := m.history[s.Name]
			if !ok {
				st = &probe.Stats{}
				m.history[s.Name] = st
			}
			st.Record(s.Result)
		}
	}

	return m, nil
}

// Run starts the dashboard and blocks until the user quits.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

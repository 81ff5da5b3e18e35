package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/probe"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Reachable: true,
		Taken:     time.Now(),
		Faults: []faults.Fault{
			{ID: "f-1", FaultSpec: faults.FaultSpec{
				Service:     "s3",
				Region:      "us-east-1",
				Probability: 1.0,
				Error:       &faults.ErrorSpec{StatusCode: 503, Code: "ServiceUnavailable"},
			}},
		},
		Effects: faults.Effects{Latency: 200},
		Services: []ServiceStatus{
			{Name: "s3", Result: probe.Result{Status: probe.StatusOutage, HTTPCode: 503, Latency: 12 * time.Millisecond}},
			{Name: "dynamodb", Result: probe.Result{Status: probe.StatusOK, HTTPCode: 200, Latency: 4 * time.Millisecond}},
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(Config{Endpoint: "http://localhost:4566"})
	assert.Equal(t, DefaultInterval, m.cfg.Interval)
	assert.NotEmpty(t, m.cfg.Services)
	assert.NotNil(t, m.history)
}

func TestUpdate_SnapshotAccumulatesHistory(t *testing.T) {
	m := New(Config{Endpoint: "http://localhost:4566", Region: "us-east-1"})

	next, _ := m.Update(snapshotMsg(testSnapshot()))
	m = next.(Model)
	next, _ = m.Update(snapshotMsg(testSnapshot()))
	m = next.(Model)

	assert.Equal(t, 2, m.updates)
	require.Contains(t, m.history, "s3")
	require.Contains(t, m.history, "dynamodb")
	assert.Equal(t, 2, m.history["s3"].Total)
	assert.Equal(t, 2, m.history["s3"].Outage)
	assert.Equal(t, 2, m.history["dynamodb"].OK)
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := New(Config{Endpoint: "http://localhost:4566"})
	for _, key := range []string{"q", "ctrl+c"} {
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd, "key %q should produce a command", key)
		assert.Equal(t, tea.Quit(), cmd(), "key %q should quit", key)
	}
}

func TestUpdate_RefreshKeyPolls(t *testing.T) {
	m := New(Config{Endpoint: "http://localhost:4566"})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.NotNil(t, cmd, "r should trigger an immediate poll")
}

func TestView_RendersSnapshot(t *testing.T) {
	m := New(Config{Endpoint: "http://localhost:4566", Region: "us-east-1"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	next, _ = m.Update(snapshotMsg(testSnapshot()))
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "chaosd monitor")
	assert.Contains(t, view, "f-1")
	assert.Contains(t, view, "s3/us-east-1")
	assert.Contains(t, view, "network latency: 200ms")
	assert.Contains(t, view, "dynamodb")
	assert.Contains(t, view, "AVAILABILITY")
}

func TestView_Unreachable(t *testing.T) {
	m := New(Config{Endpoint: "http://localhost:4566"})
	view := m.View()
	assert.Contains(t, view, "waiting for first poll")

	next, _ := m.Update(snapshotMsg(Snapshot{Err: assert.AnError, Taken: time.Now()}))
	m = next.(Model)
	assert.Contains(t, m.View(), "emulator unreachable")
}

package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/getchaosd/chaosd/pkg/probe"
)

var (
	successColor = lipgloss.Color("#00ff00")
	warningColor = lipgloss.Color("#ffaa00")
	errorColor   = lipgloss.Color("#ff0000")
	infoColor    = lipgloss.Color("#00aaff")
	dimColor     = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#5a56e0")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5a56e0")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(infoColor)

	okStyle   = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(dimColor)
)

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var sections []string
	sections = append(sections, titleStyle.Width(width-2).Render(
		fmt.Sprintf("chaosd monitor | %s | %s | updates: %d | q to quit, r to refresh",
			m.cfg.Endpoint,
			m.current.Taken.Format("15:04:05"),
			m.updates,
		),
	))

	if !m.current.Reachable {
		msg := m.spin.View() + " waiting for first poll..."
		if m.current.Err != nil {
			msg = m.spin.View() + " " + errStyle.Render("emulator unreachable: "+m.current.Err.Error())
		}
		sections = append(sections, sectionStyle.Width(width-2).Render(msg))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections,
		sectionStyle.Width(width-2).Render(m.renderFaults()),
		sectionStyle.Width(width-2).Render(m.renderServices()),
		sectionStyle.Width(width-2).Render(m.renderHistory()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFaults() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("ACTIVE FAULTS"))
	b.WriteString("\n")

	if len(m.current.Faults) == 0 && m.current.Effects.Latency == 0 {
		b.WriteString(dimStyle.Render("none - the emulator is healthy"))
		return b.String()
	}

	for _, f := range m.current.Faults {
		line := fmt.Sprintf("%-10s %-24s p=%.2f", f.ID, f.Target(), f.Probability)
		if f.Error != nil {
			line += fmt.Sprintf("  HTTP %d %s", f.Error.StatusCode, f.Error.Code)
		}
		b.WriteString(errStyle.Render("▼ ") + line + "\n")
	}
	if m.current.Effects.Latency > 0 {
		b.WriteString(warnStyle.Render("◷ ") +
			fmt.Sprintf("network latency: %dms on all traffic", m.current.Effects.Latency))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderServices() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("SERVICES (" + m.cfg.Region + ")"))
	b.WriteString("\n")

	for _, s := range m.current.Services {
		mark, style := statusGlyph(s.Result.Status)
		latency := s.Result.Latency.Round(time.Millisecond).String()
		code := "-"
		if s.Result.HTTPCode != 0 {
			code = fmt.Sprintf("%d", s.Result.HTTPCode)
		}
		b.WriteString(fmt.Sprintf("%s %-12s %-10s http=%-4s %s\n",
			style.Render(mark), s.Name, style.Render(string(s.Result.Status)), code, dimStyle.Render(latency)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("AVAILABILITY"))
	b.WriteString("\n")

	lines := 0
	for _, s := range m.current.Services {
		st, ok := m.history[s.Name]
		if !ok || st.Total == 0 {
			continue
		}
		lines++
		rate := st.SuccessRate() * 100
		style := okStyle
		switch {
		case rate < 50:
			style = errStyle
		case rate < 90:
			style = warnStyle
		}
		b.WriteString(fmt.Sprintf("%-12s %s  (%d/%d probes ok, avg %s)\n",
			s.Name,
			style.Render(fmt.Sprintf("%5.1f%%", rate)),
			st.OK, st.Total,
			st.MeanLatency().Round(time.Millisecond)))
	}
	if lines == 0 {
		b.WriteString(dimStyle.Render("no probes yet"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusGlyph(s probe.Status) (string, lipgloss.Style) {
	switch s {
	case probe.StatusOK:
		return "●", okStyle
	case probe.StatusThrottled:
		return "◐", warnStyle
	default:
		return "○", errStyle
	}
}

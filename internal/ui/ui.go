package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/rtop/internal/app"
)

// Model adapts the controller to Bubble Tea: key presses become commands,
// the refresh timer becomes ticks, and View draws the controller's state.
type Model struct {
	ctx    context.Context
	ctrl   *app.Controller
	keys   KeyMap
	help   help.Model
	width  int
	height int
}

func New(ctx context.Context, ctrl *app.Controller) *Model {
	return &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  120,
		height: 40,
	}
}

// Messages
type tickMsg struct{}

// tickCmd waits at most d for input before the next resample.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) Init() tea.Cmd { return tickCmd(m.ctrl.Timeout()) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		cmd, ok := m.keys.Command(msg, m.ctrl.State().Mode)
		if !ok {
			return m, nil
		}
		if m.ctrl.Handle(m.ctx, cmd) {
			return m, tea.Quit
		}
	case tickMsg:
		m.ctrl.Tick(m.ctx)
		return m, tickCmd(m.ctrl.Timeout())
	}
	return m, nil
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("27"))
	redStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	yellowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	greenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	gaugeFill     = "█"
	gaugeEmpty    = "░"
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("220")).
			Foreground(lipgloss.Color("220")).
			Padding(1, 2)
)

// chrome is the number of lines around the process rows: header, gauge
// cards, table border, title and column header, help, status.
const chrome = 12

func (m *Model) View() string {
	st := m.ctrl.State()
	s := st.Sample
	header := titleStyle.Render("rtop") + "  " +
		subtleStyle.Render(s.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006")) + "  " +
		subtleStyle.Render(fmt.Sprintf("%d processes, sort: %s, every %v", len(s.Processes), st.Sort, m.ctrl.Interval()))

	half := m.width/2 - 1
	gaugeWidth := max(half-16, 10)
	cpuCard := card("CPU Usage", gaugeBar(s.CPU.Total, gaugeWidth), half)
	memCard := card("Memory Usage",
		fmt.Sprintf("%s  %.1f/%.1f GiB",
			gaugeBar(s.Memory.UsedPercent(), max(gaugeWidth-16, 10)),
			bytesToGiB(s.Memory.UsedBytes),
			bytesToGiB(s.Memory.TotalBytes)), half)
	gauges := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard)

	rows := max(m.height-chrome, 5)
	inner := max(m.width-6, 0) // card border and padding
	var body string
	if st.Mode == app.KillMenu {
		body = lipgloss.Place(inner, rows+1, lipgloss.Center, lipgloss.Center, killMenu(st))
	} else {
		body = renderTable(st, rows, inner)
	}
	procCard := card("Processes", body, m.width-2)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		gauges,
		procCard,
		m.help.View(m.keys.helpFor(st.Mode)),
		status(st),
	)
}

func killMenu(st app.State) string {
	target := "selected process has exited"
	if p, ok := st.Target(); ok {
		target = fmt.Sprintf("%s (pid %d)", p.Name, p.PID)
	}
	return menuStyle.Render(labelStyle.Render("Process Management") + "\n\n" +
		"Send a signal to " + target + "\n\n" +
		"1: SIGINT | 2: SIGQUIT | 3: SIGTERM | 9: SIGKILL | ESC: Cancel")
}

func status(st app.State) string {
	if st.Last == nil {
		return ""
	}
	text := st.Last.String()
	if p, ok := st.Sample.Lookup(st.Last.PID); ok {
		text += " (" + p.Name + ")"
	}
	if st.Last.Err != nil {
		return errorStyle.Render(text)
	}
	return successStyle.Render(text)
}

const (
	pidWidth  = 8
	cpuWidth  = 8
	memWidth  = 12
	nameMinWd = 20
)

func renderTable(st app.State, limit, width int) string {
	view := st.View()
	nameWidth := max(width-pidWidth-cpuWidth-2*memWidth-4, nameMinWd)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s %*s %*s",
		pidWidth, "PID", nameWidth, "Name", cpuWidth, "CPU%", memWidth, "RSS", memWidth, "Virtual")))

	selected, hasSel := st.SelectedRow()
	start := 0
	if hasSel && selected >= limit {
		start = selected - limit + 1
	}
	end := min(start+limit, len(view))
	for i := start; i < end; i++ {
		p := view[i]
		rssMB := float64(p.ResidentMem) / 1024 / 1024
		pid := fmt.Sprintf("%-*d", pidWidth, p.PID)
		name := fmt.Sprintf("%-*s", nameWidth, truncate(p.Name, nameWidth))
		cpu := fmt.Sprintf("%*.1f", cpuWidth, p.CPU)
		rss := fmt.Sprintf("%*s", memWidth, fmt.Sprintf("%.1f MB", rssMB))
		virt := fmt.Sprintf("%*s", memWidth, fmt.Sprintf("%.2f GB", bytesToGiB(p.VirtualMem)))

		b.WriteByte('\n')
		if hasSel && i == selected {
			b.WriteString(selectedStyle.Render(strings.Join([]string{pid, name, cpu, rss, virt}, " ")))
			continue
		}
		mem := memStyle(rssMB)
		b.WriteString(strings.Join([]string{pid, name, cpuStyle(p.CPU).Render(cpu), mem.Render(rss), mem.Render(virt)}, " "))
	}
	return b.String()
}

func cpuStyle(pct float64) lipgloss.Style {
	switch {
	case pct > 50:
		return redStyle
	case pct > 20:
		return yellowStyle
	}
	return greenStyle
}

func memStyle(mb float64) lipgloss.Style {
	switch {
	case mb > 1000:
		return redStyle
	case mb > 500:
		return yellowStyle
	}
	return greenStyle
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string, width int) string {
	content := labelStyle.Render(title) + "\n" + body
	return cardStyle.Width(max(width-2, 0)).Render(content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func bytesToGiB(b uint64) float64 { return float64(b) / (1024 * 1024 * 1024) }

// RunTUI starts the Bubble Tea program. The controller must already hold its
// first sample.
func RunTUI(ctx context.Context, ctrl *app.Controller) error {
	prog := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

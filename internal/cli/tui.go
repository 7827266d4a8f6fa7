package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sherlocksearch/holmes/pkg/scheduler"
)

// =============================================================================
// gatherWatchModel - live "holmes gather watch" dashboard
// =============================================================================

// hostRow is one line of the dashboard's host table, a snapshot of
// [scheduler.Host] state safe to render without touching the
// scheduler's internal lock.
type hostRow struct {
	hostname string
	state    scheduler.State
	depth    int
}

type tickMsg time.Time

// gatherWatchModel renders the scheduler's live queue depth and host
// backoff state (spec §7's per-host status line, as a bubbletea
// dashboard instead of a plain log stream).
type gatherWatchModel struct {
	sched    *scheduler.Scheduler
	cancel   context.CancelFunc
	rows     []hostRow
	queueLen int
	started  time.Time
}

func newGatherWatchModel(sched *scheduler.Scheduler, cancel context.CancelFunc) gatherWatchModel {
	return gatherWatchModel{sched: sched, cancel: cancel, started: time.Now()}
}

func (m gatherWatchModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m gatherWatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tickMsg:
		m.sched.Tick()
		snaps := m.sched.Snapshot()
		m.rows = make([]hostRow, len(snaps))
		m.queueLen = 0
		active := false
		for i, s := range snaps {
			m.rows[i] = hostRow{hostname: s.Hostname, state: s.State, depth: s.Depth}
			m.queueLen += s.Depth
			if s.State == scheduler.StateActive {
				active = true
			}
		}
		if m.queueLen == 0 && !active && len(snaps) > 0 {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m gatherWatchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("holmes gather watch"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("elapsed %s · %d item(s) pending · q to stop", time.Since(m.started).Round(time.Second), m.queueLen)))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(StyleDim.Render("no hosts enqueued yet"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(hostTable(m.rows))
	b.WriteString("\n")
	return b.String()
}

// runWatchTUI drives a [gatherWatchModel] until the scheduler's queue
// drains or the user quits.
func runWatchTUI(sched *scheduler.Scheduler) error {
	_, cancel := context.WithCancel(context.Background())
	model := newGatherWatchModel(sched, cancel)
	p := tea.NewProgram(model)
	_, err := p.Run()
	return err
}

// hostTable renders one row per known host, sorted by hostname.
func hostTable(rows []hostRow) string {
	sort.Slice(rows, func(i, j int) bool { return rows[i].hostname < rows[j].hostname })
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.hostname, r.state.String(), fmt.Sprintf("%d", r.depth)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Host", "State", "Queue depth").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

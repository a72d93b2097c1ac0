package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "pomocoin/internal/modules/timer/dto"
	"pomocoin/internal/ui/theme"
)

// StateMsg delivers a timer snapshot from the watch subscription.
type StateMsg struct {
	State timerdto.StateOutput
}

const cycleDots = 4

var clockStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true).Padding(1, 0)

type Model struct {
	state  timerdto.StateOutput
	bar    progress.Model
	width  int
	height int
}

func New() Model {
	bar := progress.New(progress.WithGradient(string(theme.Lavender), string(theme.Peach)), progress.WithoutPercentage())
	return Model{bar: bar}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-8, 60)
	case StateMsg:
		m.state = msg.State
	}
	return m, nil
}

func (m Model) State() timerdto.StateOutput { return m.state }

func (m Model) View() string {
	s := m.state
	if s.Mode == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Muted.Render("Loading timer…"))
	}
	status := theme.Muted.Render("paused")
	if s.Running {
		status = theme.Hot.Render("running")
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(s.Mode)+"  "+status,
		clockStyle.Render(FormatClock(s.RemainingSeconds)),
		m.bar.ViewAs(s.Progress),
		"",
		Dots(s.CycleDots),
		"",
		theme.Muted.Render("space: start/pause  r: reset  1: focus  2: short  3: long"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Dots renders the focus cycles completed toward the next long break.
func Dots(filled int) string {
	var sb strings.Builder
	for i := 0; i < cycleDots; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		if i < filled {
			sb.WriteString(theme.Hot.Render("●"))
		} else {
			sb.WriteString(theme.Faded.Render("○"))
		}
	}
	return sb.String()
}

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomocoin/internal/ui/theme"
)

// ConfirmResultMsg carries the answer and the action that asked for it.
type ConfirmResultMsg struct {
	Yes    bool
	Action tea.Cmd
}

var confirmStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Red).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(1, 2)

// Confirm is a yes/no overlay guarding a destructive action.
type Confirm struct {
	question string
	action   tea.Cmd
	visible  bool
}

func (c Confirm) Visible() bool { return c.visible }

// Ask shows question; action runs only if the user answers yes.
func (c *Confirm) Ask(question string, action tea.Cmd) {
	c.question = question
	c.action = action
	c.visible = true
}

func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	if !c.visible {
		return c, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	var yes bool
	switch key.String() {
	case "y", "Y", "enter":
		yes = true
	case "n", "N", "esc", "q":
	default:
		return c, nil
	}
	action := c.action
	c.visible = false
	c.action = nil
	return c, func() tea.Msg { return ConfirmResultMsg{Yes: yes, Action: action} }
}

func (c Confirm) View() string {
	if !c.visible {
		return ""
	}
	body := theme.Title.Render(c.question) + "\n\n" + theme.Muted.Render("y: yes   n/esc: no")
	return confirmStyle.Render(body)
}

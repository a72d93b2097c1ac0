package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tasksdto "pomocoin/internal/modules/tasks/dto"
	"pomocoin/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TasksPort interface {
	List(ctx context.Context) ([]tasksdto.TaskOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Tasks []tasksdto.TaskOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type taskItem struct {
	task tasksdto.TaskOutput
}

func (i taskItem) Title() string       { return i.task.Text }
func (i taskItem) Description() string { return fmt.Sprintf("+%d coins", i.task.Value) }
func (i taskItem) FilterValue() string { return i.task.Text }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   TasksPort
	list   list.Model
	err    error
	width  int
	height int
}

func New(port TasksPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Yellow).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tasks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("task", "tasks")

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the pending tasks.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		tasks, err := m.port.List(context.Background())
		return LoadedMsg{Tasks: tasks, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Tasks))
		for i, t := range msg.Tasks {
			items[i] = taskItem{task: t}
		}
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Danger.Render("tasks: " + m.err.Error())
	}
	if len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No tasks yet. Press a to add one."))
	}
	hints := theme.Muted.Render("a: add  e: edit  enter: complete  x: delete  /: filter")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), hints)
}

// Selected returns the highlighted task, if any.
func (m Model) Selected() (tasksdto.TaskOutput, bool) {
	if item, ok := m.list.SelectedItem().(taskItem); ok {
		return item.task, true
	}
	return tasksdto.TaskOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

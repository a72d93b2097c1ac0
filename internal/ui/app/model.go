package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledgerdto "pomocoin/internal/modules/ledger/dto"
	rewardsdto "pomocoin/internal/modules/rewards/dto"
	tasksdto "pomocoin/internal/modules/tasks/dto"
	timerdto "pomocoin/internal/modules/timer/dto"
	"pomocoin/internal/ui/components"
	"pomocoin/internal/ui/theme"
	shopview "pomocoin/internal/ui/views/shop"
	tasksview "pomocoin/internal/ui/views/tasks"
	timerview "pomocoin/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type tasksPort interface {
	Add(ctx context.Context, text string, value int) (tasksdto.MutationOutput, error)
	Edit(ctx context.Context, id string, text *string, value *int) (tasksdto.MutationOutput, error)
	Complete(ctx context.Context, id string) (tasksdto.CompleteOutput, error)
	Delete(ctx context.Context, id string) (tasksdto.MutationOutput, error)
	List(ctx context.Context) ([]tasksdto.TaskOutput, error)
}

type rewardsPort interface {
	Add(ctx context.Context, name string, cost int) (rewardsdto.MutationOutput, error)
	Edit(ctx context.Context, id string, name *string, cost *int) (rewardsdto.MutationOutput, error)
	Redeem(ctx context.Context, id string) (rewardsdto.RedeemOutput, error)
	Delete(ctx context.Context, id string) (rewardsdto.MutationOutput, error)
	List(ctx context.Context) ([]rewardsdto.RewardOutput, error)
}

type ledgerPort interface {
	Balance(ctx context.Context) (ledgerdto.BalanceOutput, error)
}

type timerPort interface {
	Start(ctx context.Context) (timerdto.StateOutput, error)
	Pause(ctx context.Context) (timerdto.StateOutput, error)
	Reset(ctx context.Context, mode string) (timerdto.StateOutput, error)
	Status(ctx context.Context) (timerdto.StateOutput, error)
	Watch(fn func(timerdto.StateOutput)) func()
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTasks tabID = iota
	tabShop
	tabTimer
	tabCount
)

var tabLabels = [tabCount]string{"Tasks", "Shop", "Timer"}

// ─── async messages ───────────────────────────────────────────────────────────

type balanceMsg struct {
	balance int
	err     error
}

// actionDoneMsg reports a finished mutation. Views reload on success.
type actionDoneMsg struct {
	status  string
	warning string
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Add     key.Binding
	Edit    key.Binding
	Enter   key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	Reset   key.Binding
	Modes   key.Binding
	Escape  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "complete/redeem")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Modes:   key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "focus/short/long")),
		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard draft")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Add, k.Edit, k.Enter, k.Delete},
		{k.Toggle, k.Reset, k.Modes},
		{k.Help, k.Palette, k.Escape, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the balance
// header, the help overlay, the command palette and the confirm overlay.
// Business logic lives behind the ports; rendering lives in the sub-views.
type Model struct {
	tasks   tasksPort
	rewards rewardsPort
	ledger  ledgerPort
	timer   timerPort

	taskView  tasksview.Model
	shopView  shopview.Model
	timerView timerview.Model

	// timer snapshots arrive on this channel from the watch subscription
	timerCh chan timerdto.StateOutput

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	confirm   components.Confirm
	balance   int
	status    string
	width     int
	height    int
}

func NewModel(tasks tasksPort, rewards rewardsPort, ledger ledgerPort, timer timerPort) Model {
	return Model{
		tasks:     tasks,
		rewards:   rewards,
		ledger:    ledger,
		timer:     timer,
		taskView:  tasksview.New(tasks),
		shopView:  shopview.New(rewards),
		timerView: timerview.New(),
		timerCh:   make(chan timerdto.StateOutput, 16),
		activeTab: tabTasks,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	ch := m.timerCh
	m.timer.Watch(func(state timerdto.StateOutput) {
		select {
		case ch <- state:
		default:
		}
	})
	return tea.Batch(
		m.taskView.Init(),
		m.shopView.Init(),
		m.loadBalanceCmd(),
		m.timerStatusCmd(),
		m.waitTimerCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Overlays intercept all input while open.
	if m.confirm.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
	}
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case balanceMsg:
		if msg.err != nil {
			m.status = "balance: " + msg.err.Error()
		} else {
			m.balance = msg.balance
		}
		return m, nil

	case actionDoneMsg:
		switch {
		case msg.err != nil:
			m.status = "error: " + msg.err.Error()
		case msg.warning != "":
			m.status = msg.status + " (warning: " + msg.warning + ")"
		default:
			m.status = msg.status
		}
		return m, tea.Batch(m.taskView.Reload(), m.shopView.Reload(), m.loadBalanceCmd())

	case timerview.StateMsg:
		m.timerView, _ = m.timerView.Update(msg)
		cmds = append(cmds, m.waitTimerCmd())
		if c := msg.State.Completed; c != nil {
			m.status = fmt.Sprintf("%s complete, next up: %s", c.Finished, c.Next)
			if c.Award > 0 {
				m.status += fmt.Sprintf(" (+%d coins)", c.Award)
				cmds = append(cmds, m.shopView.Reload(), m.loadBalanceCmd())
			}
		}
		if msg.State.Warning != "" {
			m.status = "timer warning: " + msg.State.Warning
		}
		return m, tea.Batch(cmds...)

	case tasksview.LoadedMsg:
		var cmd tea.Cmd
		m.taskView, cmd = m.taskView.Update(msg)
		return m, cmd

	case shopview.LoadedMsg:
		var cmd tea.Cmd
		m.shopView, cmd = m.shopView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "draft discarded"
		return m, nil

	case components.ConfirmResultMsg:
		if !msg.Yes || msg.Action == nil {
			m.status = "cancelled"
			return m, nil
		}
		return m, msg.Action

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}

		if handled, next, cmd := m.handleTabKey(msg.String()); handled {
			return next, cmd
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTasks:
		m.taskView, tabCmd = m.taskView.Update(msg)
	case tabShop:
		m.shopView, tabCmd = m.shopView.Update(msg)
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleTabKey(k string) (bool, Model, tea.Cmd) {
	switch m.activeTab {
	case tabTasks:
		switch k {
		case "a":
			return true, m, m.palette.OpenWith("task:add 1 ")
		case "e":
			if task, ok := m.taskView.Selected(); ok {
				return true, m, m.palette.OpenWith(fmt.Sprintf("task:edit %d %s", task.Value, task.Text))
			}
		case "enter":
			if task, ok := m.taskView.Selected(); ok {
				return true, m, m.completeTaskCmd(task)
			}
		case "x", "delete":
			if task, ok := m.taskView.Selected(); ok {
				m.confirm.Ask(fmt.Sprintf("Are you sure you want to delete %q?", task.Text), m.deleteTaskCmd(task))
				return true, m, nil
			}
		}
	case tabShop:
		switch k {
		case "a":
			return true, m, m.palette.OpenWith("reward:add 10 ")
		case "e":
			if reward, ok := m.shopView.Selected(); ok {
				return true, m, m.palette.OpenWith(fmt.Sprintf("reward:edit %d %s", reward.Cost, reward.Name))
			}
		case "enter":
			if reward, ok := m.shopView.Selected(); ok {
				return true, m.askRedeem(reward), nil
			}
		case "x", "delete":
			if reward, ok := m.shopView.Selected(); ok {
				m.confirm.Ask(fmt.Sprintf("Are you sure you want to delete %q?", reward.Name), m.deleteRewardCmd(reward))
				return true, m, nil
			}
		}
	case tabTimer:
		switch k {
		case " ", "enter":
			if m.timerView.State().Running {
				return true, m, m.timerCmd("paused", m.timer.Pause)
			}
			return true, m, m.timerCmd("started", m.timer.Start)
		case "r":
			return true, m, m.resetTimerCmd(m.timerView.State().Mode)
		case "1":
			return true, m, m.resetTimerCmd("focus")
		case "2":
			return true, m, m.resetTimerCmd("short")
		case "3":
			return true, m, m.resetTimerCmd("long")
		}
	}
	return false, m, nil
}

func (m Model) askRedeem(reward rewardsdto.RewardOutput) Model {
	if !reward.Affordable {
		m.status = fmt.Sprintf("not enough coins for %q (%d needed, %d available)", reward.Name, reward.Cost, m.balance)
		return m
	}
	m.confirm.Ask(fmt.Sprintf("Redeem %q for %d coins?", reward.Name, reward.Cost), m.redeemRewardCmd(reward))
	return m
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.confirm.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTasks:
		return m.taskView.View()
	case tabShop:
		return m.shopView.View()
	case tabTimer:
		return m.timerView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	left := "pomocoin  " + strings.Join(parts, sep)
	right := theme.Coins.Render(fmt.Sprintf("◎ %d", m.balance))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if s := m.timerView.State(); s.Running {
		left = theme.Hot.Render("● "+s.Mode+" "+timerview.FormatClock(s.RemainingSeconds)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "task:add":
		value, text, ok := numberAndText(parts)
		if !ok {
			m.status = "usage: task:add <value> <text>"
			return m, nil
		}
		m.activeTab = tabTasks
		return m, m.addTaskCmd(text, value)

	case "task:edit":
		task, selected := m.taskView.Selected()
		value, text, ok := numberAndText(parts)
		if !selected || !ok {
			m.status = "usage: task:edit <value> <text> (on a selected task)"
			return m, nil
		}
		return m, m.editTaskCmd(task.ID, text, value)

	case "task:done":
		if task, ok := m.taskView.Selected(); ok {
			return m, m.completeTaskCmd(task)
		}
		m.status = "no task selected"

	case "task:delete":
		if task, ok := m.taskView.Selected(); ok {
			m.confirm.Ask(fmt.Sprintf("Are you sure you want to delete %q?", task.Text), m.deleteTaskCmd(task))
			return m, nil
		}
		m.status = "no task selected"

	case "reward:add":
		cost, name, ok := numberAndText(parts)
		if !ok {
			m.status = "usage: reward:add <cost> <name>"
			return m, nil
		}
		m.activeTab = tabShop
		return m, m.addRewardCmd(name, cost)

	case "reward:edit":
		reward, selected := m.shopView.Selected()
		cost, name, ok := numberAndText(parts)
		if !selected || !ok {
			m.status = "usage: reward:edit <cost> <name> (on a selected reward)"
			return m, nil
		}
		return m, m.editRewardCmd(reward.ID, name, cost)

	case "reward:redeem":
		if reward, ok := m.shopView.Selected(); ok {
			return m.askRedeem(reward), nil
		}
		m.status = "no reward selected"

	case "reward:delete":
		if reward, ok := m.shopView.Selected(); ok {
			m.confirm.Ask(fmt.Sprintf("Are you sure you want to delete %q?", reward.Name), m.deleteRewardCmd(reward))
			return m, nil
		}
		m.status = "no reward selected"

	case "timer:start":
		m.activeTab = tabTimer
		return m, m.timerCmd("started", m.timer.Start)

	case "timer:pause":
		m.activeTab = tabTimer
		return m, m.timerCmd("paused", m.timer.Pause)

	case "timer:reset":
		mode := "focus"
		if len(parts) >= 2 {
			mode = strings.Join(parts[1:], " ")
		}
		m.activeTab = tabTimer
		return m, m.resetTimerCmd(mode)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// numberAndText parses "<cmd> <n> <text...>".
func numberAndText(parts []string) (int, string, bool) {
	if len(parts) < 3 {
		return 0, "", false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", false
	}
	return n, strings.Join(parts[2:], " "), true
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabTasks:
		return m.taskView.Filtering()
	case tabShop:
		return m.shopView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
	m.taskView, _ = m.taskView.Update(sz)
	m.shopView, _ = m.shopView.Update(sz)
	m.timerView, _ = m.timerView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) waitTimerCmd() tea.Cmd {
	ch := m.timerCh
	return func() tea.Msg {
		return timerview.StateMsg{State: <-ch}
	}
}

func (m Model) loadBalanceCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.Balance(context.Background())
		return balanceMsg{balance: out.Balance, err: err}
	}
}

func (m Model) timerStatusCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.timer.Status(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return timerview.StateMsg{State: out}
	}
}

func (m Model) timerCmd(verb string, fn func(context.Context) (timerdto.StateOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return actionDoneMsg{status: "timer " + verb, warning: out.Warning, err: err}
	}
}

func (m Model) resetTimerCmd(mode string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.timer.Reset(context.Background(), mode)
		return actionDoneMsg{status: "timer reset to " + out.Mode, warning: out.Warning, err: err}
	}
}

func (m Model) addTaskCmd(text string, value int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Add(context.Background(), text, value)
		return actionDoneMsg{status: fmt.Sprintf("added %q", out.Task.Text), warning: out.Warning, err: err}
	}
}

func (m Model) editTaskCmd(id, text string, value int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Edit(context.Background(), id, &text, &value)
		return actionDoneMsg{status: fmt.Sprintf("updated %q", out.Task.Text), warning: out.Warning, err: err}
	}
}

func (m Model) completeTaskCmd(task tasksdto.TaskOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Complete(context.Background(), task.ID)
		return actionDoneMsg{
			status:  fmt.Sprintf("completed %q (+%d coins)", task.Text, task.Value),
			warning: out.Warning,
			err:     err,
		}
	}
}

func (m Model) deleteTaskCmd(task tasksdto.TaskOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Delete(context.Background(), task.ID)
		return actionDoneMsg{status: fmt.Sprintf("deleted %q", task.Text), warning: out.Warning, err: err}
	}
}

func (m Model) addRewardCmd(name string, cost int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.rewards.Add(context.Background(), name, cost)
		return actionDoneMsg{status: fmt.Sprintf("added %q", out.Reward.Name), warning: out.Warning, err: err}
	}
}

func (m Model) editRewardCmd(id, name string, cost int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.rewards.Edit(context.Background(), id, &name, &cost)
		return actionDoneMsg{status: fmt.Sprintf("updated %q", out.Reward.Name), warning: out.Warning, err: err}
	}
}

func (m Model) redeemRewardCmd(reward rewardsdto.RewardOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.rewards.Redeem(context.Background(), reward.ID)
		return actionDoneMsg{status: fmt.Sprintf("redeemed %q (-%d coins)", reward.Name, reward.Cost), warning: out.Warning, err: err}
	}
}

func (m Model) deleteRewardCmd(reward rewardsdto.RewardOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.rewards.Delete(context.Background(), reward.ID)
		return actionDoneMsg{status: fmt.Sprintf("deleted %q", reward.Name), warning: out.Warning, err: err}
	}
}

package shop

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	rewardsdto "pomocoin/internal/modules/rewards/dto"
	"pomocoin/internal/ui/theme"
)

type RewardsPort interface {
	List(ctx context.Context) ([]rewardsdto.RewardOutput, error)
}

type LoadedMsg struct {
	Rewards []rewardsdto.RewardOutput
	Err     error
}

type rewardItem struct {
	reward rewardsdto.RewardOutput
}

func (i rewardItem) Title() string {
	if !i.reward.Affordable {
		return theme.Faded.Render(i.reward.Name)
	}
	return i.reward.Name
}

func (i rewardItem) Description() string {
	desc := fmt.Sprintf("%d coins", i.reward.Cost)
	if i.reward.Redeemed > 0 {
		desc += fmt.Sprintf("  redeemed %d×", i.reward.Redeemed)
	}
	if !i.reward.Affordable {
		desc += "  (can't afford)"
	}
	return desc
}

func (i rewardItem) FilterValue() string { return i.reward.Name }

type Model struct {
	port   RewardsPort
	list   list.Model
	err    error
	width  int
	height int
}

func New(port RewardsPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Yellow).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Shop"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("reward", "rewards")

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches the catalog with affordability against the current balance.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		rewards, err := m.port.List(context.Background())
		return LoadedMsg{Rewards: rewards, Err: err}
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
		items := make([]list.Item, len(msg.Rewards))
		for i, r := range msg.Rewards {
			items[i] = rewardItem{reward: r}
		}
		return m, m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Danger.Render("shop: " + m.err.Error())
	}
	if len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("The shop is empty. Press a to add a reward."))
	}
	hints := theme.Muted.Render("a: add  e: edit  enter: redeem  x: delete  /: filter")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), hints)
}

func (m Model) Selected() (rewardsdto.RewardOutput, bool) {
	if item, ok := m.list.SelectedItem().(rewardItem); ok {
		return item.reward, true
	}
	return rewardsdto.RewardOutput{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tim1593/shop-db2/internal/overview"
)

type overviewLoadedMsg struct {
	overview *overview.Overview
	err      error
}

type OverviewModel struct {
	CommonModel
	overviewService *overview.Service

	overview *overview.Overview
	loading  bool
	err      error
}

func NewOverviewModel(svc *overview.Service) OverviewModel {
	return OverviewModel{overviewService: svc, loading: true}
}

func (m OverviewModel) Title() string { return "Financial Overview" }

func (m OverviewModel) ShortHelp() string { return "r: refresh | Esc: back" }

func (m OverviewModel) Init() tea.Cmd {
	return m.load
}

func (m OverviewModel) load() tea.Msg {
	ctx, cancel := DbCtx()
	defer cancel()

	o, err := m.overviewService.Get(ctx)

	return overviewLoadedMsg{overview: o, err: err}
}

func (m OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.resize(msg)

	switch msg := msg.(type) {
	case overviewLoadedMsg:
		m.loading = false
		m.overview = msg.overview
		m.err = msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, m.load
		}
	}

	return m, nil
}

func (m OverviewModel) View() string {
	if m.err != nil {
		return errorView(m.err) + "\n\n" + m.ShortHelp()
	}

	if m.loading || m.overview == nil {
		return "Loading overview..."
	}

	sides := lipgloss.JoinHorizontal(lipgloss.Top,
		panel(renderSide("Incomes", m.overview.Incomes)),
		panel(renderSide("Expenses", m.overview.Expenses)),
	)

	total := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	if m.overview.TotalBalance < 0 {
		total = total.Foreground(lipgloss.Color("196"))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		m.Title() + "\n\n" +
			sides + "\n\n" +
			"Total balance: " + total.Render(FormatAmount(m.overview.TotalBalance)) + "\n\n" +
			m.ShortHelp(),
	)
}

func renderSide(title string, side overview.Side) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n")

	for _, item := range side.Items {
		fmt.Fprintf(&sb, "%-16s %14s\n", item.Name, FormatAmount(item.Amount))
	}

	fmt.Fprintf(&sb, "\n%-16s %14s", "Sum", FormatAmount(side.Amount))

	return sb.String()
}

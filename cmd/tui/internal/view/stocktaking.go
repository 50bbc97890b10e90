package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

type collectionsLoadedMsg struct {
	collections []*stocktaking.Collection
	err         error
}

type balanceLoadedMsg struct {
	balance *stocktaking.Balance
	err     error
}

type collectionRevokedMsg struct {
	err error
}

// StocktakingModel lists stocktaking collections and reconciles two of them.
type StocktakingModel struct {
	CommonModel
	stocktakingService *stocktaking.Service
	session            Session

	table       table.Model
	collections []*stocktaking.Collection
	startID     int64
	endID       int64

	balance      *stocktaking.Balance
	balanceTable table.Model

	err error
}

func NewStocktakingModel(svc *stocktaking.Service, session Session) StocktakingModel {
	return StocktakingModel{
		stocktakingService: svc,
		session:            session,
		table: newTable([]table.Column{
			{Title: "", Width: 5},
			{Title: "ID", Width: 6},
			{Title: "Date", Width: 16},
			{Title: "Admin", Width: 6},
			{Title: "Items", Width: 6},
			{Title: "Revoked", Width: 8},
		}, 15),
		balanceTable: newTable([]table.Column{
			{Title: "Product", Width: 8},
			{Title: "Start", Width: 6},
			{Title: "Bought", Width: 7},
			{Title: "Restock", Width: 8},
			{Title: "Expected", Width: 9},
			{Title: "Counted", Width: 8},
			{Title: "Diff", Width: 6},
			{Title: "Price", Width: 10},
			{Title: "Value", Width: 11},
		}, 15),
	}
}

func (m StocktakingModel) Title() string { return "Stocktaking" }

func (m StocktakingModel) ShortHelp() string {
	if m.balance != nil {
		return "Esc: back to collections"
	}

	return "s: mark start | e: mark end | b: balance | x: toggle revoke | r: refresh | Esc: back"
}

func (m StocktakingModel) Init() tea.Cmd {
	return m.load
}

func (m StocktakingModel) load() tea.Msg {
	ctx, cancel := DbCtx()
	defer cancel()

	collections, err := m.stocktakingService.List(ctx)

	return collectionsLoadedMsg{collections: collections, err: err}
}

func (m StocktakingModel) loadBalance() tea.Msg {
	ctx, cancel := DbCtx()
	defer cancel()

	b, err := m.stocktakingService.Balance(ctx, m.startID, m.endID)

	return balanceLoadedMsg{balance: b, err: err}
}

func (m StocktakingModel) toggle(c *stocktaking.Collection) tea.Cmd {
	id, revoked, admin := c.ID, !c.Revoked, m.session.Admin

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.stocktakingService.ToggleRevoke(ctx, admin, id, revoked)

		return collectionRevokedMsg{err: err}
	}
}

func (m StocktakingModel) selected() *stocktaking.Collection {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.collections) {
		return nil
	}

	return m.collections[cursor]
}

func (m StocktakingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.resize(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(m.tableHeight())
		m.balanceTable.SetHeight(m.tableHeight())
	case collectionsLoadedMsg:
		m.err = msg.err
		m.collections = msg.collections
		m.table.SetRows(m.collectionRows())

		return m, nil
	case balanceLoadedMsg:
		m.err = msg.err
		m.balance = msg.balance

		if msg.balance != nil {
			m.balanceTable.SetRows(balanceRows(msg.balance))
		}

		return m, nil
	case collectionRevokedMsg:
		m.err = msg.err
		return m, m.load
	case tea.KeyMsg:
		if m.balance != nil {
			if msg.String() == "esc" || msg.String() == "q" {
				m.balance = nil
				return m, nil
			}

			var cmd tea.Cmd
			m.balanceTable, cmd = m.balanceTable.Update(msg)

			return m, cmd
		}

		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			return m, m.load
		case "s", "e":
			if c := m.selected(); c != nil {
				if msg.String() == "s" {
					m.startID = c.ID
				} else {
					m.endID = c.ID
				}

				m.table.SetRows(m.collectionRows())
			}

			return m, nil
		case "b":
			if m.startID == 0 || m.endID == 0 {
				m.err = fmt.Errorf("mark a start and an end collection first")
				return m, nil
			}

			return m, m.loadBalance
		case "x":
			if c := m.selected(); c != nil {
				return m, m.toggle(c)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m StocktakingModel) collectionRows() []table.Row {
	rows := make([]table.Row, 0, len(m.collections))

	for _, c := range m.collections {
		var mark string

		switch c.ID {
		case m.startID:
			mark = "start"
		case m.endID:
			mark = "end"
		}

		revoked := ""
		if c.Revoked {
			revoked = "yes"
		}

		rows = append(rows, table.Row{
			mark,
			strconv.FormatInt(c.ID, 10),
			FormatTime(c.Timestamp),
			strconv.FormatInt(c.AdminID, 10),
			strconv.Itoa(len(c.Items)),
			revoked,
		})
	}

	return rows
}

func balanceRows(b *stocktaking.Balance) []table.Row {
	rows := make([]table.Row, 0, len(b.Products))

	for _, p := range b.Products {
		rows = append(rows, table.Row{
			strconv.FormatInt(p.ProductID, 10),
			strconv.FormatInt(p.StartCount, 10),
			strconv.FormatInt(p.Purchased, 10),
			strconv.FormatInt(p.Replenished, 10),
			strconv.FormatInt(p.Expected, 10),
			strconv.FormatInt(p.EndCount, 10),
			strconv.FormatInt(p.Difference, 10),
			FormatAmount(p.Price),
			FormatAmount(p.Value),
		})
	}

	return rows
}

func (m StocktakingModel) View() string {
	var s string

	if m.balance != nil {
		s = fmt.Sprintf("Balance of collections #%d to #%d\n\n", m.startID, m.endID) +
			tableBox(m.balanceTable) + "\n" +
			fmt.Sprintf("Profit: %s | Loss: %s | Balance: %s",
				FormatAmount(m.balance.Profit),
				FormatAmount(m.balance.Loss),
				FormatAmount(m.balance.Profit-m.balance.Loss),
			)
	} else {
		s = m.Title() + "\n\n" + tableBox(m.table)
	}

	if m.err != nil {
		s += "\n" + errorView(m.err)
	}

	return s + "\n\n" + m.ShortHelp()
}

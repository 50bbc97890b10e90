package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/overview"
)

type entriesLoadedMsg struct {
	entries []ledger.Entry
	err     error
}

type entryRevokedMsg struct {
	id      int64
	revoked bool
	err     error
}

type entriesState int

const (
	entriesStateList entriesState = iota
	entriesStateTimeframe
	entriesStateConfirm
)

// EntriesModel browses the ledger one kind at a time and toggles revocations.
type EntriesModel struct {
	CommonModel
	ledgerService *ledger.Service
	session       Session

	state     entriesState
	kindIdx   int
	timeframe Timeframe
	filter    ledger.ListFilter
	picker    TimeframePicker

	table   table.Model
	entries []ledger.Entry

	confirmForm *huh.Form
	confirmed   *bool
	pending     ledger.Entry

	status string
	err    error
}

func NewEntriesModel(svc *ledger.Service, session Session) EntriesModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 16},
		{Title: "Admin", Width: 6},
		{Title: "User", Width: 6},
		{Title: "Value", Width: 12},
		{Title: "Revoked", Width: 8},
		{Title: "Comment", Width: 32},
	}

	return EntriesModel{
		ledgerService: svc,
		session:       session,
		timeframe:     TimeframeAll,
		picker:        NewTimeframePicker(TimeframeThisMonth),
		table:         newTable(columns, 15),
		confirmed:     new(bool),
	}
}

func (m EntriesModel) kind() ledger.Kind {
	return ledger.Kinds[m.kindIdx]
}

func (m EntriesModel) Title() string { return "Ledger Entries" }

func (m EntriesModel) ShortHelp() string {
	switch m.state {
	case entriesStateTimeframe:
		return "Enter: select | Esc: cancel"
	case entriesStateConfirm:
		return "Enter: confirm | Esc: cancel"
	}

	return "Tab/Shift+Tab: kind | f: timeframe | x: toggle revoke | r: refresh | Esc: back"
}

func (m EntriesModel) Init() tea.Cmd {
	return m.load
}

func (m EntriesModel) load() tea.Msg {
	ctx, cancel := DbCtx()
	defer cancel()

	entries, err := m.ledgerService.ListEntries(ctx, m.kind(), m.filter)

	return entriesLoadedMsg{entries: entries, err: err}
}

func (m EntriesModel) toggle(e ledger.Entry) tea.Cmd {
	kind := m.kind()
	id := e.Base().ID
	revoked := !e.Base().Revoked
	admin := m.session.Admin

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.ledgerService.ToggleRevoke(ctx, admin, kind, id, revoked)

		return entryRevokedMsg{id: id, revoked: revoked, err: err}
	}
}

func (m EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.resize(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(m.tableHeight())
	case entriesLoadedMsg:
		m.err = msg.err
		m.entries = msg.entries
		m.table.SetRows(entryRows(msg.entries))

		return m, nil
	case entryRevokedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("%s #%d revoked: %t", overview.Label(m.kind()), msg.id, msg.revoked)

		return m, m.load
	case TimeframeSelectedMsg:
		m.state = entriesStateList
		m.timeframe = msg.Timeframe
		m.filter = msg.Filter

		return m, m.load
	}

	switch m.state {
	case entriesStateTimeframe:
		return m.updateTimeframe(msg)
	case entriesStateConfirm:
		return m.updateConfirm(msg)
	}

	return m.updateList(msg)
}

func (m EntriesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, Back
		case "tab":
			m.kindIdx = (m.kindIdx + 1) % len(ledger.Kinds)
			m.status = ""

			return m, m.load
		case "shift+tab":
			m.kindIdx = (m.kindIdx + len(ledger.Kinds) - 1) % len(ledger.Kinds)
			m.status = ""

			return m, m.load
		case "f":
			m.state = entriesStateTimeframe
			m.picker.Reset()

			return m, nil
		case "r":
			return m, m.load
		case "x":
			cursor := m.table.Cursor()
			if cursor < 0 || cursor >= len(m.entries) {
				return m, nil
			}

			m.pending = m.entries[cursor]
			*m.confirmed = false
			m.confirmForm = m.buildConfirmForm(m.pending)
			m.state = entriesStateConfirm

			return m, m.confirmForm.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EntriesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" && m.picker.IsSelecting() {
		m.state = entriesStateList
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m EntriesModel) buildConfirmForm(e ledger.Entry) *huh.Form {
	action := "Revoke"
	if e.Base().Revoked {
		action = "Restore"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %s #%d?", action, overview.Label(e.Kind()), e.Base().ID)).
				Description(fmt.Sprintf("Value %s, %d earlier change(s)", FormatAmount(e.Value()), len(e.Base().History))).
				Value(m.confirmed),
		),
	)
}

func (m EntriesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = entriesStateList
		return m, nil
	}

	form, cmd := m.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.state = entriesStateList
		if *m.confirmed {
			return m, m.toggle(m.pending)
		}

		return m, nil
	case huh.StateAborted:
		m.state = entriesStateList
		return m, nil
	}

	return m, cmd
}

func entryRows(entries []ledger.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))

	for _, e := range entries {
		h := e.Base()

		revoked := ""
		if h.Revoked {
			revoked = "yes"
		}

		rows = append(rows, table.Row{
			strconv.FormatInt(h.ID, 10),
			FormatTime(h.Timestamp),
			strconv.FormatInt(h.AdminID, 10),
			entryUser(e),
			FormatAmount(e.Value()),
			revoked,
			h.Comment,
		})
	}

	return rows
}

func entryUser(e ledger.Entry) string {
	switch e := e.(type) {
	case *ledger.Purchase:
		return strconv.FormatInt(e.UserID, 10)
	case *ledger.Deposit:
		return strconv.FormatInt(e.UserID, 10)
	case *ledger.Refund:
		return strconv.FormatInt(e.UserID, 10)
	}

	return "-"
}

func (m EntriesModel) View() string {
	switch m.state {
	case entriesStateTimeframe:
		return panel(m.picker.View())
	case entriesStateConfirm:
		return panel(m.confirmForm.View())
	}

	var tabs []string

	for i, kind := range ledger.Kinds {
		label := overview.Label(kind)
		if i == m.kindIdx {
			tabs = append(tabs, activeStyle("["+label+"]"))
		} else {
			tabs = append(tabs, " "+label+" ")
		}
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var sum int64

	for _, e := range m.entries {
		if !e.Base().Revoked {
			sum += e.Value()
		}
	}

	info := fmt.Sprintf("%s | %d entries | sum of non-revoked: %s", m.timeframe, len(m.entries), FormatAmount(sum))
	if m.status != "" {
		info += "\n" + m.status
	}

	s := header + "\n\n" + tableBox(m.table) + "\n" + info
	if m.err != nil {
		s += "\n" + errorView(m.err)
	}

	return s + "\n\n" + m.ShortHelp()
}

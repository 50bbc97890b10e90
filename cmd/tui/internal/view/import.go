package view

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tim1593/shop-db2/internal/importer"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStatePreview
	importStateComment
	importStateResult
)

type importParsedMsg struct {
	items          []stocktaking.ItemParams
	replenishments []ledger.ReplenishmentParams
	err            error
}

type importSavedMsg struct {
	status string
	err    error
}

// ImportModel reads a count sheet or a supplier invoice from disk, previews
// it and books it as a stocktaking or replenishment collection.
type ImportModel struct {
	CommonModel
	importService      *importer.Service
	stocktakingService *stocktaking.Service
	ledgerService      *ledger.Service
	session            Session

	state        importState
	formats      []importer.Format
	formatCursor int
	format       importer.Format
	filePicker   filepicker.Model
	path         string

	items          []stocktaking.ItemParams
	replenishments []ledger.ReplenishmentParams
	preview        table.Model

	commentForm *huh.Form
	comment     *string

	status string
	err    error
}

func NewImportModel(
	importService *importer.Service,
	stocktakingService *stocktaking.Service,
	ledgerService *ledger.Service,
	session Session,
) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService:      importService,
		stocktakingService: stocktakingService,
		ledgerService:      ledgerService,
		session:            session,
		formats:            []importer.Format{importer.FormatCountSheet, importer.FormatInvoice},
		filePicker:         fp,
		comment:            new(string),
	}
}

func (m ImportModel) Title() string { return "Import" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: book | Esc: cancel"
	case importStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.resize(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateFormatSelect:
			return m.updateFormatSelect(msg)
		case importStatePreview:
			if msg.Type == tea.KeyEnter {
				return m.book()
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)

			return m, cmd
		}
	case importParsedMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err

			return m, nil
		}

		m.items = msg.items
		m.replenishments = msg.replenishments
		m.preview = m.buildPreview()
		m.state = importStatePreview

		return m, nil
	case importSavedMsg:
		m.state = importStateResult
		m.err = msg.err
		m.status = msg.status

		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.path = path
			return m, m.parseCmd(path)
		}

		return m, cmd
	case importStateComment:
		return m.updateComment(msg)
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFormatSelect:
		return m, Back
	case importStateComment:
		m.state = importStatePreview
		return m, nil
	}

	m.state = importStateFormatSelect
	m.items = nil
	m.replenishments = nil
	m.err = nil
	m.status = ""

	return m, nil
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case "down", "j":
		if m.formatCursor < len(m.formats)-1 {
			m.formatCursor++
		}
	case "enter":
		m.format = m.formats[m.formatCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	format := m.format

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importParsedMsg{err: err}
		}
		defer f.Close()

		switch format {
		case importer.FormatCountSheet:
			items, err := m.importService.CountSheet(f)
			return importParsedMsg{items: items, err: err}
		case importer.FormatInvoice:
			lines, err := m.importService.Invoice(f)
			return importParsedMsg{replenishments: lines, err: err}
		}

		return importParsedMsg{err: fmt.Errorf("unknown format %q", format)}
	}
}

func (m ImportModel) buildPreview() table.Model {
	if m.format == importer.FormatCountSheet {
		t := newTable([]table.Column{
			{Title: "Product", Width: 8},
			{Title: "Count", Width: 8},
			{Title: "Keep Active", Width: 12},
		}, 12)

		rows := make([]table.Row, 0, len(m.items))
		for _, it := range m.items {
			rows = append(rows, table.Row{
				strconv.FormatInt(it.ProductID, 10),
				strconv.FormatInt(it.Count, 10),
				strconv.FormatBool(it.KeepActive),
			})
		}

		t.SetRows(rows)

		return t
	}

	t := newTable([]table.Column{
		{Title: "Product", Width: 8},
		{Title: "Amount", Width: 8},
		{Title: "Total", Width: 12},
	}, 12)

	rows := make([]table.Row, 0, len(m.replenishments))
	for _, r := range m.replenishments {
		rows = append(rows, table.Row{
			strconv.FormatInt(r.ProductID, 10),
			strconv.FormatInt(r.Amount, 10),
			FormatAmount(r.TotalPrice),
		})
	}

	t.SetRows(rows)

	return t
}

func (m ImportModel) book() (tea.Model, tea.Cmd) {
	if m.format == importer.FormatCountSheet {
		return m, m.saveCountSheet()
	}

	*m.comment = ""
	m.commentForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Comment").
				Description("Stored with the replenishment collection").
				Value(m.comment).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("comment is required")
					}

					return nil
				}),
		),
	).WithShowHelp(false)
	m.state = importStateComment

	return m, m.commentForm.Init()
}

func (m ImportModel) updateComment(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.commentForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.commentForm = f
	}

	if m.commentForm.State == huh.StateCompleted {
		return m, m.saveInvoice(strings.TrimSpace(*m.comment))
	}

	return m, cmd
}

func (m ImportModel) saveCountSheet() tea.Cmd {
	items, admin := m.items, m.session.Admin

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.stocktakingService.Create(ctx, admin, stocktaking.CreateParams{Items: items})
		if err != nil {
			return importSavedMsg{err: err}
		}

		return importSavedMsg{status: fmt.Sprintf("Created stocktaking collection #%d with %d items.", c.ID, len(c.Items))}
	}
}

func (m ImportModel) saveInvoice(comment string) tea.Cmd {
	lines, admin := m.replenishments, m.session.Admin

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.ledgerService.CreateReplenishmentCollection(ctx, admin, ledger.ReplenishmentCollectionParams{
			Replenishments: lines,
			Comment:        comment,
		})
		if err != nil {
			return importSavedMsg{err: err}
		}

		return importSavedMsg{status: fmt.Sprintf(
			"Created replenishment collection #%d, %d lines, %s.", c.ID, len(c.Replenishments), FormatAmount(c.Value()),
		)}
	}
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateFormatSelect:
		var sb strings.Builder

		sb.WriteString("Select Format:\n\n")

		for i, f := range m.formats {
			if i == m.formatCursor {
				sb.WriteString(activeStyle("> "+string(f)) + "\n")
			} else {
				sb.WriteString("  " + string(f) + "\n")
			}
		}

		return style.Render(sb.String() + "\n" + m.ShortHelp())
	case importStateFilePick:
		return style.Render(fmt.Sprintf("Select file to import (%s):\n\n%s", m.format, m.filePicker.View()))
	case importStatePreview:
		return style.Render(fmt.Sprintf("%s\n\n%s\n%d rows\n\n%s", m.path, tableBox(m.preview), len(m.preview.Rows()), m.ShortHelp()))
	case importStateComment:
		return style.Render(m.commentForm.View())
	case importStateResult:
		if m.err != nil {
			return errorView(m.err) + "\n\n(Esc to go back)"
		}

		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) + "\n\n(Esc to go back)",
		)
	}

	return ""
}

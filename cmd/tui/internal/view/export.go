package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tim1593/shop-db2/internal/export"
	"github.com/Tim1593/shop-db2/internal/ledger"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

type exportResultMsg struct {
	file    string
	summary string
	err     error
}

// ExportModel writes a zip archive of ledger entries and the overview.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker
	filter          ledger.ListFilter

	form    *huh.Form
	dir     *string
	spinner spinner.Model

	file    string
	summary string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	dir := "./exports"

	return ExportModel{
		exportService:   svc,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		dir:             &dir,
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.resize(msg)

	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.filter = tfMsg.Filter
		m.form = m.buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.timeframePicker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.filter, *m.dir))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.file = result.file
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) runExportCmd(filter ledger.ListFilter, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		bundle, err := m.exportService.Collect(ctx, filter)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating directory: %w", err)}
		}

		path := filepath.Join(dir, bundle.FileName())

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("creating archive: %w", err)}
		}

		if err := bundle.WriteZip(f); err != nil {
			_ = f.Close()
			return exportResultMsg{err: err}
		}

		if err := f.Close(); err != nil {
			return exportResultMsg{err: fmt.Errorf("closing archive: %w", err)}
		}

		return exportResultMsg{file: path, summary: bundle.Summary()}
	}
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case exportStatePath:
		return style.Render(m.form.View())
	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Exporting ledger...", m.spinner.View()))
	case exportStateResult:
		if m.err != nil {
			return errorView(m.err) + "\n\n" + m.ShortHelp()
		}

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")).
			Render("Export Complete!")

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Written to "+m.file,
			"",
			m.summary,
			"",
			m.ShortHelp(),
		))
	}

	return ""
}

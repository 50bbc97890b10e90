package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tim1593/shop-db2/cmd/tui/internal/view"
	"github.com/Tim1593/shop-db2/internal/auth"
	catalogStore "github.com/Tim1593/shop-db2/internal/catalog/store"
	"github.com/Tim1593/shop-db2/internal/config"
	"github.com/Tim1593/shop-db2/internal/database"
	"github.com/Tim1593/shop-db2/internal/export"
	"github.com/Tim1593/shop-db2/internal/importer"
	"github.com/Tim1593/shop-db2/internal/ledger"
	ledgerStore "github.com/Tim1593/shop-db2/internal/ledger/store"
	"github.com/Tim1593/shop-db2/internal/overview"
	overviewStore "github.com/Tim1593/shop-db2/internal/overview/store"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
	stocktakingStore "github.com/Tim1593/shop-db2/internal/stocktaking/store"
)

type model struct {
	ledgerService      *ledger.Service
	stocktakingService *stocktaking.Service
	overviewService    *overview.Service
	importService      *importer.Service
	exportService      *export.Service

	session     view.Session
	currentView View
	width       int
	height      int

	loginView       view.LoginModel
	overviewView    view.OverviewModel
	entriesView     view.EntriesModel
	stocktakingView view.StocktakingModel
	importView      view.ImportModel
	exportView      view.ExportModel
}

type View int

const (
	ViewLogin       View = 0
	ViewMenu        View = 1
	ViewOverview    View = 2
	ViewEntries     View = 3
	ViewStocktaking View = 4
	ViewImport      View = 5
	ViewExport      View = 6
)

func initialModel() model {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Tokens issued here never leave the process, so no denylist is needed.
	var (
		catalogRepo = catalogStore.New(db)
		tokens      = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenValidity)
		gate        = auth.NewGate(tokens, catalogRepo, nil)
		authService = auth.NewService(catalogRepo, tokens, nil)
	)

	ledgerSvc := ledger.NewService(ledgerStore.New(db))
	overviewSvc := overview.NewService(overviewStore.New(db))

	return model{
		ledgerService:      ledgerSvc,
		stocktakingService: stocktaking.NewService(stocktakingStore.New(db)),
		overviewService:    overviewSvc,
		importService:      importer.NewService(),
		exportService:      export.NewService(ledgerSvc, overviewSvc),
		currentView:        ViewLogin,
		loginView:          view.NewLoginModel(authService, gate),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

// enter switches to v and replays the last known window size to it.
func (m model) enter(v View, init tea.Cmd) (tea.Model, tea.Cmd) {
	m.currentView = v
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return m, tea.Batch(init, func() tea.Msg { return size })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.overviewView = view.NewOverviewModel(m.overviewService)
				return m.enter(ViewOverview, m.overviewView.Init())
			case "2":
				m.entriesView = view.NewEntriesModel(m.ledgerService, m.session)
				return m.enter(ViewEntries, m.entriesView.Init())
			case "3":
				m.stocktakingView = view.NewStocktakingModel(m.stocktakingService, m.session)
				return m.enter(ViewStocktaking, m.stocktakingView.Init())
			case "4":
				m.importView = view.NewImportModel(m.importService, m.stocktakingService, m.ledgerService, m.session)
				return m.enter(ViewImport, m.importView.Init())
			case "5":
				m.exportView = view.NewExportModel(m.exportService)
				return m.enter(ViewExport, m.exportView.Init())
			}
		}
	case view.LoggedInMsg:
		m.session = msg.Session
		m.currentView = ViewMenu

		slog.Info("administrator logged in", "admin_id", msg.Session.Admin.ID)

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewOverview:
		var newModel tea.Model
		newModel, cmd = m.overviewView.Update(msg)
		m.overviewView = newModel.(view.OverviewModel)
	case ViewEntries:
		var newModel tea.Model
		newModel, cmd = m.entriesView.Update(msg)
		m.entriesView = newModel.(view.EntriesModel)
	case ViewStocktaking:
		var newModel tea.Model
		newModel, cmd = m.stocktakingView.Update(msg)
		m.stocktakingView = newModel.(view.StocktakingModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"shop-db\n\n" +
				"1. Financial Overview\n" +
				"2. Ledger Entries\n" +
				"3. Stocktaking\n" +
				"4. Import Count Sheet / Invoice\n" +
				"5. Export\n\n" +
				"q. Quit",
		)
	case ViewOverview:
		return m.overviewView.View()
	case ViewEntries:
		return m.entriesView.View()
	case ViewStocktaking:
		return m.stocktakingView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

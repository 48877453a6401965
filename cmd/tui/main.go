package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cashtrack/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cashtrack/internal/app"
	"github.com/MrJamesThe3rd/cashtrack/internal/config"
	"github.com/MrJamesThe3rd/cashtrack/internal/logging"
)

type screen int

const (
	screenMenu screen = iota
	screenOverview
	screenTransactions
	screenImport
	screenExport
	screenSettings
	screenRules
	screenAccount
)

type menuEntry struct {
	key    string
	label  string
	screen screen
}

var menu = []menuEntry{
	{"1", "Overview", screenOverview},
	{"2", "Transactions", screenTransactions},
	{"3", "Import Statement", screenImport},
	{"4", "Export Transactions", screenExport},
	{"5", "Balances & Currency", screenSettings},
	{"6", "Description Rules", screenRules},
	{"7", "Account", screenAccount},
}

var (
	menuTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	menuHelp  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	app *app.App

	current screen
	active  view.View
}

// open builds a fresh view so every visit starts from current state.
func (m model) open(s screen) view.View {
	a := m.app

	switch s {
	case screenOverview:
		return view.NewOverviewModel(a.Transactions, a.State, a.Formatter)
	case screenTransactions:
		return view.NewTransactionsModel(a.Transactions, a.State, a.Formatter)
	case screenImport:
		return view.NewImportModel(a.Importer)
	case screenExport:
		return view.NewExportModel(a.Export)
	case screenSettings:
		return view.NewSettingsModel(a.State)
	case screenRules:
		return view.NewRulesModel(a.Matching)
	case screenAccount:
		return view.NewAccountModel(a.Auth)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.current == screenMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, e := range menu {
				if msg.String() == e.key {
					m.current = e.screen
					m.active = m.open(e.screen)

					return m, m.active.Init()
				}
			}

			return m, nil
		}

	case view.BackMsg:
		m.current = screenMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.active != nil {
		return m.active.View() + "\n" + menuHelp.Render("  "+m.active.ShortHelp())
	}

	s := menuTitle.Render(m.app.Config.App.Name) + "\n\n"
	for _, e := range menu {
		s += fmt.Sprintf("%s. %s\n", e.key, e.label)
	}

	s += "\nq. Quit"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	return f, func() { f.Close() }, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	w, closeLog, err := logOutput(cfg.App.LogFile)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := logging.Setup(w, cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(model{app: a}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
	}
}

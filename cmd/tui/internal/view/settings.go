package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/state"
)

// SettingsModel edits the starting balances and the display currency.
type SettingsModel struct {
	CommonModel
	state *state.Store

	form   *huh.Form
	input  *settingsForm
	status string
	err    error
}

type settingsForm struct {
	cash     string
	bank     string
	currency string
}

type settingsSavedMsg struct {
	err error
}

func NewSettingsModel(st *state.Store) SettingsModel {
	m := SettingsModel{state: st}
	m.form = m.buildForm()

	return m
}

func (m SettingsModel) Title() string     { return "Balances & Currency" }
func (m SettingsModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *SettingsModel) buildForm() *huh.Form {
	start := m.state.StartingBalances()
	m.input = &settingsForm{
		cash:     start.Cash.String(),
		bank:     start.Bank.String(),
		currency: m.state.Currency(),
	}

	balance := func(s string) error {
		_, err := ledger.ParseStartingBalances(s, "")
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("cash").
				Title("Starting cash").
				Value(&m.input.cash).
				Validate(balance),
			huh.NewInput().
				Key("bank").
				Title("Starting bank").
				Value(&m.input.bank).
				Validate(balance),
			huh.NewInput().
				Key("currency").
				Title("Currency").
				Description("Three letter ISO code, e.g. NGN").
				CharLimit(3).
				Value(&m.input.currency).
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) != 3 {
						return state.ErrInvalidCurrency
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Saved."
		}

		m.form = m.buildForm()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.saveCmd(*m.input)
	}

	return m, cmd
}

func (m SettingsModel) saveCmd(in settingsForm) tea.Cmd {
	return func() tea.Msg {
		balances, err := ledger.ParseStartingBalances(in.cash, in.bank)
		if err != nil {
			return settingsSavedMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		if err := m.state.SetStartingBalances(ctx, balances); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("balances: %w", err)}
		}

		if err := m.state.SetCurrency(ctx, in.currency); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("currency: %w", err)}
		}

		return settingsSavedMsg{}
	}
}

func (m SettingsModel) View() string {
	footer := ""

	switch {
	case m.err != nil:
		footer = renderErr(m.err)
	case m.status != "":
		footer = successStyle.Render(m.status)
	}

	return padded.Render(titleStyle.Render(m.Title()) + "\n\n" + m.form.View() + "\n" + footer)
}

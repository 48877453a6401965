package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashtrack/internal/money"
	"github.com/MrJamesThe3rd/cashtrack/internal/state"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateAdd
	txStateConfirmDelete
)

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service
	state     *state.Store
	formatter *money.Formatter

	mode  txState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	status string
	err    error

	// huh writes through these pointers, so they are shared by every copy
	// of the model.
	input *txForm
}

type txForm struct {
	description string
	amount      string
	typ         transaction.Type
	account     transaction.Account
	date        string
	time        string
	confirm     bool
}

func NewTransactionsModel(txSvc *transaction.Service, st *state.Store, f *money.Formatter) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 6},
		{Title: "Type", Width: 8},
		{Title: "Account", Width: 8},
		{Title: "Amount", Width: 16},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := TransactionsModel{
		txService: txSvc,
		state:     st,
		formatter: f,
		table:     t,
	}
	m.reload()

	return m
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.mode {
	case txStateAdd:
		return "Navigate form | Esc: cancel"
	case txStateConfirmDelete:
		return "Confirm delete | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

type txSavedMsg struct {
	tx  *transaction.Transaction
	err error
}

type txDeletedMsg struct {
	err error
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("Added %q.", msg.tx.Description)
		m.reload()

		return m, nil

	case txDeletedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Deleted."
		}
		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.mode {
	case txStateAdd, txStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.reload()
			return m, nil
		case "a":
			return m.enterAdd()
		case "x", "delete":
			return m.enterDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterAdd() (tea.Model, tea.Cmd) {
	m.input = &txForm{typ: transaction.TypeIncome, account: transaction.AccountCash}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.input.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return transaction.ErrMissingDescription
					}
					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.input.amount).
				Validate(func(s string) error {
					_, err := transaction.ParseAmount(s)
					return err
				}),
			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Income", transaction.TypeIncome),
					huh.NewOption("Expense", transaction.TypeExpense),
				).
				Value(&m.input.typ),
			huh.NewSelect[transaction.Account]().
				Key("account").
				Title("Account").
				Options(
					huh.NewOption("Cash", transaction.AccountCash),
					huh.NewOption("Bank", transaction.AccountBank),
				).
				Value(&m.input.account),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("today (YYYY-MM-DD)").
				Value(&m.input.date).
				Validate(optionalLayout(transaction.DateLayout)),
			huh.NewInput().
				Key("time").
				Title("Time").
				Placeholder("now (HH:MM)").
				Value(&m.input.time).
				Validate(optionalLayout(transaction.TimeLayout)),
		),
	).WithWidth(50).WithShowHelp(false)

	m.mode = txStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) enterDelete() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	m.input = &txForm{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", m.txs[idx].Description)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.input.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.mode = txStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.exitForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.exitForm()
		return m, nil
	case huh.StateCompleted:
		mode := m.mode
		m.exitForm()

		if mode == txStateAdd {
			return m, m.addCmd(*m.input)
		}

		if !m.input.confirm {
			return m, nil
		}

		return m, m.deleteCmd(m.txs[m.table.Cursor()].ID)
	}

	return m, cmd
}

func (m *TransactionsModel) exitForm() {
	m.mode = txStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m TransactionsModel) addCmd(f txForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		tx, err := m.txService.Add(ctx, transaction.Form{
			Description: f.description,
			Amount:      f.amount,
			Type:        f.typ,
			Account:     f.account,
			Date:        f.date,
			Time:        f.time,
		})

		return txSavedMsg{tx: tx, err: err}
	}
}

func (m TransactionsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return txDeletedMsg{err: m.txService.Remove(ctx, id)}
	}
}

func (m *TransactionsModel) reload() {
	m.txs = slices.Collect(m.txService.ListSorted())
	currency := m.state.Currency()

	rows := make([]table.Row, len(m.txs))
	for i, tx := range m.txs {
		amount := m.formatter.Format(tx.Signed(), currency)
		rows[i] = table.Row{tx.Date, tx.Time, string(tx.Type), string(tx.Account), amount, tx.Description}
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// optionalLayout accepts blank input or a value in layout.
func optionalLayout(layout string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}

		if _, err := time.Parse(layout, s); err != nil {
			return fmt.Errorf("expected %s", layout)
		}

		return nil
	}
}

func (m TransactionsModel) View() string {
	if m.form != nil {
		return padded.Render(m.form.View())
	}

	footer := mutedStyle.Render(fmt.Sprintf("%d transactions", len(m.txs)))

	switch {
	case m.err != nil:
		footer = renderErr(m.err)
	case m.status != "":
		footer = successStyle.Render(m.status)
	}

	return padded.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Transactions"),
		"",
		m.table.View(),
		"",
		footer,
	))
}

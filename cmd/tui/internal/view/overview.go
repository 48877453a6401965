package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/money"
	"github.com/MrJamesThe3rd/cashtrack/internal/state"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

const barWidth = 40

var (
	cashStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	bankStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(24)
)

type OverviewModel struct {
	CommonModel
	txService *transaction.Service
	state     *state.Store
	formatter *money.Formatter

	summary ledger.Summary
}

func NewOverviewModel(txSvc *transaction.Service, st *state.Store, f *money.Formatter) OverviewModel {
	m := OverviewModel{txService: txSvc, state: st, formatter: f}
	m.refresh()

	return m
}

func (m OverviewModel) Title() string     { return "Overview" }
func (m OverviewModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m OverviewModel) Init() tea.Cmd {
	return nil
}

func (m *OverviewModel) refresh() {
	m.summary = ledger.Derive(m.txService.All(), m.state.StartingBalances(), time.Now())
}

func (m OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
		}
	}

	return m, nil
}

func (m OverviewModel) View() string {
	d := m.summary.Format(m.formatter, m.state.Currency())

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Cash\n"+cashStyle.Render(d.CashBalance)),
		cardStyle.Render("Bank\n"+bankStyle.Render(d.BankBalance)),
		cardStyle.Render("Total\n"+titleStyle.Render(d.TotalBalance)),
	)

	net := successStyle.Render(d.TodaysNet)
	if m.summary.TodaysNet.IsNegative() {
		net = errorStyle.Render(d.TodaysNet)
	}

	lines := []string{
		titleStyle.Render("Balances"),
		"",
		cards,
		"",
		SplitBar(m.summary.CashShare, m.summary.BankShare, barWidth),
		fmt.Sprintf("%s %s   %s %s", cashStyle.Render("■ Cash"), d.CashShare, bankStyle.Render("■ Bank"), d.BankShare),
		"",
		fmt.Sprintf("Income:  %s (%d)", d.Income, m.summary.IncomeCount),
		fmt.Sprintf("Expense: %s (%d)", d.Expense, m.summary.ExpenseCount),
		fmt.Sprintf("Today:   %s", net),
		mutedStyle.Render(fmt.Sprintf("%d entries", m.summary.Entries)),
	}

	return padded.Render(strings.Join(lines, "\n"))
}

// splitCells divides width between cash and bank by cashShare.
func splitCells(cashShare, width int) (int, int) {
	cash := min(max((cashShare*width+50)/100, 0), width)
	return cash, width - cash
}

// SplitBar renders the cash and bank shares as a horizontal bar. When both
// shares are 0 there is nothing to split and the bar is muted.
func SplitBar(cashShare, bankShare, width int) string {
	if cashShare == 0 && bankShare == 0 {
		return mutedStyle.Render(strings.Repeat("░", width))
	}

	cash, bank := splitCells(cashShare, width)

	return cashStyle.Render(strings.Repeat("█", cash)) + bankStyle.Render(strings.Repeat("█", bank))
}

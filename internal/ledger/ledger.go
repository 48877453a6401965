// Package ledger derives balances and activity totals from a transaction set.
// Everything here is a pure function of its inputs and is recomputed on
// every read.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/money"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

// StartingBalances are the opening cash and bank amounts. They are replaced
// wholesale, never patched.
type StartingBalances struct {
	Cash decimal.Decimal
	Bank decimal.Decimal
}

var ErrInvalidBalance = errors.New("invalid balance")

// ParseStartingBalances reads the cash and bank inputs. A blank input is
// zero; negative openings are allowed.
func ParseStartingBalances(cash, bank string) (StartingBalances, error) {
	var (
		out StartingBalances
		err error
	)

	if out.Cash, err = parseBalance(cash); err != nil {
		return StartingBalances{}, fmt.Errorf("cash: %w", err)
	}

	if out.Bank, err = parseBalance(bank); err != nil {
		return StartingBalances{}, fmt.Errorf("bank: %w", err)
	}

	return out, nil
}

func parseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidBalance
	}

	return d, nil
}

// Summary is the full set of derived ledger figures.
type Summary struct {
	CashActivity decimal.Decimal
	BankActivity decimal.Decimal
	Income       decimal.Decimal
	Expense      decimal.Decimal
	CashBalance  decimal.Decimal
	BankBalance  decimal.Decimal
	TotalBalance decimal.Decimal
	TodaysNet    decimal.Decimal
	CashShare    int
	BankShare    int

	Entries      int
	IncomeCount  int
	ExpenseCount int
}

var hundred = decimal.NewFromInt(100)

// Derive computes the Summary. Today's net compares each transaction's date
// with the calendar date of now in now's location.
func Derive(txs []*transaction.Transaction, start StartingBalances, now time.Time) Summary {
	today := now.Format(transaction.DateLayout)

	s := Summary{Entries: len(txs)}

	for _, tx := range txs {
		signed := tx.Signed()

		switch tx.Account {
		case transaction.AccountCash:
			s.CashActivity = s.CashActivity.Add(signed)
		case transaction.AccountBank:
			s.BankActivity = s.BankActivity.Add(signed)
		}

		switch tx.Type {
		case transaction.TypeIncome:
			s.Income = s.Income.Add(tx.Amount)
			s.IncomeCount++
		case transaction.TypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
			s.ExpenseCount++
		}

		if tx.Date == today {
			s.TodaysNet = s.TodaysNet.Add(signed)
		}
	}

	s.CashBalance = start.Cash.Add(s.CashActivity)
	s.BankBalance = start.Bank.Add(s.BankActivity)
	s.TotalBalance = s.CashBalance.Add(s.BankBalance)
	s.CashShare, s.BankShare = Split(s.CashBalance, s.BankBalance)

	return s
}

// Split returns the cash and bank percentage shares of the absolute balance
// total. The bank share is the complement of the rounded cash share so the
// two always add up to 100; both are 0 when there is nothing to split.
func Split(cash, bank decimal.Decimal) (int, int) {
	total := cash.Abs().Add(bank.Abs())
	if total.IsZero() {
		return 0, 0
	}

	cashShare := int(cash.Abs().Mul(hundred).Div(total).Round(0).IntPart())

	return cashShare, 100 - cashShare
}

// Display is a Summary rendered for people.
type Display struct {
	CashBalance  string
	BankBalance  string
	TotalBalance string
	Income       string
	Expense      string
	TodaysNet    string
	CashShare    string
	BankShare    string
}

func (s Summary) Format(f *money.Formatter, currency string) Display {
	return Display{
		CashBalance:  f.Format(s.CashBalance, currency),
		BankBalance:  f.Format(s.BankBalance, currency),
		TotalBalance: f.Format(s.TotalBalance, currency),
		Income:       f.Format(s.Income, currency),
		Expense:      f.Format(s.Expense, currency),
		TodaysNet:    f.Format(s.TodaysNet, currency),
		CashShare:    fmt.Sprintf("%d%%", s.CashShare),
		BankShare:    fmt.Sprintf("%d%%", s.BankShare),
	}
}

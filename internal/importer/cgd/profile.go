package cgd

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of one CGD CSV export.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

func (p *Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

func (p *Profile) matches(cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// amount returns the row's positive amount and its transaction type.
func (p *Profile) amount(cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		d, ok := amountCell(cellValue(row, cols[p.AmountCol]))
		if !ok {
			return decimal.Zero, "", false
		}

		if d.IsNegative() {
			return d.Neg(), transaction.TypeExpense, true
		}

		return d, transaction.TypeIncome, true
	case amountSplit:
		if d, ok := amountCell(cellValue(row, cols[p.DebitCol])); ok {
			return d.Abs(), transaction.TypeExpense, true
		}

		if d, ok := amountCell(cellValue(row, cols[p.CreditCol])); ok {
			return d.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "cartão",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
	},
	{
		Name:       "extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Movimento",
	},
	{
		Name:       "conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Montante",
	},
}

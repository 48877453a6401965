// Package export renders the ledger as a CSV file and a plain text
// statement, optionally bundled in a zip archive.
package export

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/money"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

const (
	CSVName       = "transactions.csv"
	StatementName = "statement.txt"
)

type Ledger interface {
	ListSorted() iter.Seq[*transaction.Transaction]
}

// Settings supplies the values the statement header is built from.
type Settings interface {
	Currency() string
	StartingBalances() ledger.StartingBalances
}

// Filter keeps transactions dated within [StartDate, EndDate]. Blank bounds
// are open.
type Filter struct {
	StartDate string
	EndDate   string
}

func (f Filter) validate() error {
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}

		if _, err := time.Parse(transaction.DateLayout, d); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, d)
		}
	}

	return nil
}

func (f Filter) keep(tx *transaction.Transaction) bool {
	if f.StartDate != "" && tx.Date < f.StartDate {
		return false
	}

	if f.EndDate != "" && tx.Date > f.EndDate {
		return false
	}

	return true
}

type Service struct {
	ledger    Ledger
	settings  Settings
	formatter *money.Formatter
	now       func() time.Time
}

func NewService(ledger Ledger, settings Settings, formatter *money.Formatter) *Service {
	return &Service{
		ledger:    ledger,
		settings:  settings,
		formatter: formatter,
		now:       time.Now,
	}
}

// Export returns the transactions matching filter, newest first.
func (s *Service) Export(filter Filter) ([]*transaction.Transaction, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	txs := make([]*transaction.Transaction, 0)

	for tx := range s.ledger.ListSorted() {
		if filter.keep(tx) {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

// Statement renders one line per transaction followed by the totals of the
// whole ledger.
func (s *Service) Statement(txs []*transaction.Transaction) string {
	currency := s.settings.Currency()

	var sb strings.Builder

	for _, tx := range txs {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s %s | %s | %s%s | %s\n",
			tx.Date, tx.Time, tx.Description, sign, s.formatter.Format(tx.Amount, currency), tx.Account)
	}

	var all []*transaction.Transaction
	for tx := range s.ledger.ListSorted() {
		all = append(all, tx)
	}

	display := ledger.Derive(all, s.settings.StartingBalances(), s.now()).Format(s.formatter, currency)

	fmt.Fprintf(&sb, "\nCash: %s (%s)\n", display.CashBalance, display.CashShare)
	fmt.Fprintf(&sb, "Bank: %s (%s)\n", display.BankBalance, display.BankShare)
	fmt.Fprintf(&sb, "Total: %s\n", display.TotalBalance)

	return sb.String()
}

var csvHeader = []string{"id", "date", "time", "description", "type", "account", "amount"}

// WriteCSV writes txs with a header row. Amounts are plain decimals.
func (s *Service) WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Date,
			tx.Time,
			tx.Description,
			string(tx.Type),
			string(tx.Account),
			tx.Amount.StringFixed(2),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// WriteArchive writes a zip holding the CSV and the statement for txs.
func (s *Service) WriteArchive(w io.Writer, txs []*transaction.Transaction) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create(CSVName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", CSVName, err)
	}

	if err := s.WriteCSV(f, txs); err != nil {
		return err
	}

	f, err = zw.Create(StatementName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", StatementName, err)
	}

	if _, err := io.WriteString(f, s.Statement(txs)); err != nil {
		return fmt.Errorf("writing %s: %w", StatementName, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}

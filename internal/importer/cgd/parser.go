package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/cashtrack/internal/encoding"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

const dateLayout = "02-01-2006"

var ErrUnknownFormat = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

// Parser reads CGD bank CSV exports. The layout (conta, extrato, cartão) is
// detected from the header row. Every movement becomes a bank account form.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.Form, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile returns the first profile whose columns all appear in one
// row, together with that row's column map and index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows skips rows without a date or a non-zero amount (blank lines,
// page footers, totals).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.Form, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	forms := []transaction.Form{}

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		amount, txType, ok := p.amount(cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: %w", rowNum, transaction.ErrMissingDescription)
		}

		forms = append(forms, transaction.Form{
			Description: desc,
			Amount:      amount.String(),
			Type:        txType,
			Account:     transaction.AccountBank,
			Date:        date.Format(transaction.DateLayout),
			Time:        "00:00",
		})
	}

	return forms, nil
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// amountCell parses a non-zero amount, keeping its sign.
func amountCell(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

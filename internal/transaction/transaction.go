package transaction

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Account is the money container a transaction moves through.
type Account string

const (
	AccountCash Account = "cash"
	AccountBank Account = "bank"
)

func (a Account) Valid() bool {
	return a == AccountCash || a == AccountBank
}

const (
	DateLayout = time.DateOnly
	TimeLayout = "15:04"
)

var (
	ErrMissingDescription = errors.New("missing description")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidAccount     = errors.New("invalid account")
)

// Transaction is a single cash or bank movement. Amount is always positive;
// the direction is carried by Type.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Type        Type
	Account     Account
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Timestamp   int64  // unix milliseconds, 0 when unknown
}

// Integer digits of math.MaxFloat64, and the decimal exponent below which a
// float64 rounds to zero.
const (
	maxFloatDigits = 309
	minFloatDigits = -323
)

// FloatRange maps d onto the range of a float64. Values that would overflow
// report false; values that would underflow become zero.
func FloatRange(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsZero() {
		return d, true
	}

	digits := int64(d.NumDigits()) + int64(d.Exponent())

	switch {
	case digits > maxFloatDigits:
		return decimal.Zero, false
	case digits < minFloatDigits:
		return decimal.Zero, true
	case digits == maxFloatDigits:
		return d, !math.IsInf(d.InexactFloat64(), 0)
	}

	return d, true
}

// Signed returns the contribution of the transaction to its account balance.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}

	return t.Amount.Neg()
}

// EffectiveTimestamp is the stored timestamp, or one derived from Date and
// Time (midnight when Time is blank), or 0 when neither parses.
func (t *Transaction) EffectiveTimestamp() int64 {
	if t.Timestamp != 0 {
		return t.Timestamp
	}

	clock := t.Time
	if clock == "" {
		clock = "00:00"
	}

	ts, ok := composeTimestamp(t.Date, clock, time.Local)
	if !ok {
		return 0
	}

	return ts
}

// composeTimestamp parses date and clock as local wall time and returns unix
// milliseconds. Seconds on the clock are optional.
func composeTimestamp(date, clock string, loc *time.Location) (int64, bool) {
	for _, layout := range []string{DateLayout + "T" + TimeLayout, DateLayout + "T15:04:05"} {
		parsed, err := time.ParseInLocation(layout, date+"T"+clock, loc)
		if err == nil {
			return parsed.UnixMilli(), true
		}
	}

	return 0, false
}

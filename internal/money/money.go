package money

import (
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultLocale = "en-NG"

// Formatter renders amounts as currency strings. Known ISO codes use the
// currency's own grapheme and separators; unknown codes fall back to
// "<CODE> <amount>" with the locale's number formatting.
type Formatter struct {
	printer *message.Printer
}

func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Make(DefaultLocale)
	}

	return &Formatter{printer: message.NewPrinter(tag)}
}

func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return f.fallback(amount, code)
	}

	// go-money counts minor units in an int64; larger figures use the
	// locale formatting instead.
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return f.fallback(amount, code)
	}

	return cur.Formatter().Format(minor.IntPart())
}

// FormatFloat is Format for float inputs; NaN and infinities render as zero.
func (f *Formatter) FormatFloat(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	return f.Format(decimal.NewFromFloat(amount), code)
}

func (f *Formatter) fallback(amount decimal.Decimal, code string) string {
	if code == "" {
		code = "NGN"
	}

	v := amount.Round(2).InexactFloat64()

	return f.printer.Sprintf("%s %v", code, number.Decimal(v, number.Scale(2)))
}

var defaultFormatter = NewFormatter(DefaultLocale)

// Format renders amount with the default locale.
func Format(amount decimal.Decimal, code string) string {
	return defaultFormatter.Format(amount, code)
}

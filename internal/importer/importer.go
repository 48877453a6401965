// Package importer turns bank statement files into transaction forms.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

type Format string

const (
	FormatCGD Format = "cgd"
	FormatOFX Format = "ofx"
)

// Formats lists every supported statement format.
var Formats = []Format{FormatCGD, FormatOFX}

type Parser interface {
	Parse(r io.Reader) ([]transaction.Form, error)
}

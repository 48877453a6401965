package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/cashtrack/internal/importer/cgd"
	"github.com/MrJamesThe3rd/cashtrack/internal/importer/ofx"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var (
	ErrUnknownFormat    = errors.New("unknown statement format")
	ErrInvalidStatement = errors.New("invalid statement")
)

// Ledger receives the parsed forms.
type Ledger interface {
	Import(ctx context.Context, forms []transaction.Form) (*transaction.ImportResult, error)
}

// Matcher rewrites raw statement descriptions before they reach the ledger.
type Matcher interface {
	Apply(ctx context.Context, forms []transaction.Form) []transaction.Form
}

type Option func(*Service)

func WithMatcher(m Matcher) Option {
	return func(s *Service) { s.matcher = m }
}

type Service struct {
	ledger  Ledger
	matcher Matcher
	parsers map[Format]Parser
}

func NewService(ledger Ledger, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		parsers: map[Format]Parser{
			FormatCGD: cgd.NewParser(),
			FormatOFX: ofx.NewParser(),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Parse reads r in the given format without touching the ledger.
func (s *Service) Parse(format Format, r io.Reader) ([]transaction.Form, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	forms, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatement, err)
	}

	return forms, nil
}

// Preview parses r and applies the matcher if one is set, without touching
// the ledger.
func (s *Service) Preview(ctx context.Context, format Format, r io.Reader) ([]transaction.Form, error) {
	forms, err := s.Parse(format, r)
	if err != nil {
		return nil, err
	}

	if s.matcher != nil {
		forms = s.matcher.Apply(ctx, forms)
	}

	return forms, nil
}

// Import previews r and adds the new rows to the ledger.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*transaction.ImportResult, error) {
	forms, err := s.Preview(ctx, format, r)
	if err != nil {
		return nil, err
	}

	return s.ledger.Import(ctx, forms)
}

// DetectFormat guesses the format from a file name: .ofx and .qfx are OFX,
// .csv is CGD.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ofx", ".qfx":
		return FormatOFX, nil
	case ".csv":
		return FormatCGD, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

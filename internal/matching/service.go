// Package matching remembers preferred descriptions for raw bank statement
// text and applies them to imported rows.
package matching

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var ErrEmptyRule = errors.New("pattern and description are required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, rawDescription string) (string, error)
	CreateMapping(ctx context.Context, rawPattern, preferredDescription string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find a preferred description for the given raw description.
// Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	return s.repo.FindMatch(ctx, strings.TrimSpace(rawDescription))
}

// Learn remembers a new mapping between a raw pattern and a preferred description.
func (s *Service) Learn(ctx context.Context, rawPattern, preferredDescription string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	preferredDescription = strings.TrimSpace(preferredDescription)

	if rawPattern == "" || preferredDescription == "" {
		return ErrEmptyRule
	}

	return s.repo.CreateMapping(ctx, rawPattern, preferredDescription)
}

// Apply replaces each form's description with its suggestion, if any. A
// failed lookup leaves the row untouched.
func (s *Service) Apply(ctx context.Context, forms []transaction.Form) []transaction.Form {
	for i, f := range forms {
		preferred, err := s.Suggest(ctx, f.Description)
		if err != nil {
			slog.Warn("failed to suggest description", "description", f.Description, "error", err)
			continue
		}

		if preferred != "" {
			forms[i].Description = preferred
		}
	}

	return forms
}

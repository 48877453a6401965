package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

const path = "/profile"

var ErrEmptyResponse = errors.New("empty profile response")

// Store keeps the most recent profile in local state.
type Store interface {
	SaveProfile(ctx context.Context, p *Profile) error
}

type Service struct {
	client *apiclient.Client
	store  Store
}

func NewService(client *apiclient.Client, store Store) *Service {
	return &Service{client: client, store: store}
}

// Fetch loads the profile from the server and replaces the local copy.
func (s *Service) Fetch(ctx context.Context) (*Profile, error) {
	return s.do(ctx, http.MethodGet, nil)
}

// Save sends p to the server and replaces the local copy with the server's
// answer.
func (s *Service) Save(ctx context.Context, p *Profile) (*Profile, error) {
	return s.do(ctx, http.MethodPut, p)
}

func (s *Service) do(ctx context.Context, method string, body *Profile) (*Profile, error) {
	var payload any
	if body != nil {
		payload = body
	}

	p, err := apiclient.Object[Profile](ctx, s.client, method, path, payload)
	if err != nil {
		return nil, err
	}

	if p == nil {
		return nil, ErrEmptyResponse
	}

	if err := s.store.SaveProfile(ctx, p); err != nil {
		slog.Warn("failed to persist profile", "error", err)
	}

	return p, nil
}

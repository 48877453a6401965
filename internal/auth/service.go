package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/cashtrack/internal/session"
)

var (
	ErrMissingEmail    = errors.New("enter your email address")
	ErrMissingPassword = errors.New("enter your password")
	ErrMissingName     = errors.New("enter your business name")
	ErrMissingCode     = errors.New("enter the code")
	ErrNoToken         = errors.New("login succeeded but no token received")
)

// Service validates user input, runs the auth operation and keeps the
// session in step with the result.
type Service struct {
	auth    Authenticator
	session *session.Session
	mock    bool
}

func NewService(auth Authenticator, sess *session.Session, mock bool) *Service {
	return &Service{auth: auth, session: sess, mock: mock}
}

// IsMock reports whether sign-in goes straight to the local mock.
func (s *Service) IsMock() bool {
	return s.mock
}

// Login signs in and starts the session with the returned token.
func (s *Service) Login(ctx context.Context, email, password string) (Response, error) {
	email = strings.TrimSpace(email)

	if err := firstMissing(field{email, ErrMissingEmail}, field{password, ErrMissingPassword}); err != nil {
		return nil, err
	}

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token := resp.Token()
	if token == "" {
		return nil, ErrNoToken
	}

	if err := s.session.Begin(ctx, token); err != nil {
		slog.Warn("failed to persist session", "error", err)
	}

	return resp, nil
}

func (s *Service) Register(ctx context.Context, email, password, name string) (Response, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if err := firstMissing(field{name, ErrMissingName}, field{email, ErrMissingEmail}, field{password, ErrMissingPassword}); err != nil {
		return nil, err
	}

	return s.auth.Register(ctx, email, password, name)
}

func (s *Service) VerifyEmail(ctx context.Context, email, code string) (Response, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)

	if err := firstMissing(field{email, ErrMissingEmail}, field{code, ErrMissingCode}); err != nil {
		return nil, err
	}

	return s.auth.VerifyEmail(ctx, email, code)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) (Response, error) {
	email = strings.TrimSpace(email)

	if err := firstMissing(field{email, ErrMissingEmail}); err != nil {
		return nil, err
	}

	return s.auth.ForgotPassword(ctx, email)
}

func (s *Service) ResetPassword(ctx context.Context, email, code, password string) (Response, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)

	if err := firstMissing(field{email, ErrMissingEmail}, field{code, ErrMissingCode}, field{password, ErrMissingPassword}); err != nil {
		return nil, err
	}

	return s.auth.ResetPassword(ctx, email, code, password)
}

// Logout clears the session. It never calls the server.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.End(ctx)
}

func (s *Service) Authenticated() bool {
	return s.session.Authenticated()
}

type field struct {
	value string
	err   error
}

// firstMissing returns the error of the first blank field.
func firstMissing(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.err
		}
	}

	return nil
}

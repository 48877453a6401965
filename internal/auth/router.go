package auth

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

type stage int

const (
	stageStart stage = iota
	stagePrimary
	stageFallback
	stageDone
)

// Router sends each operation to the primary authenticator and retries it
// once against the fallback when the primary cannot be reached. Any other
// failure is returned unchanged.
type Router struct {
	primary   Authenticator
	fallback  Authenticator
	mockFirst bool
}

// NewRouter builds a Router. fallback may be nil, in which case connectivity
// errors are returned to the caller. With mockFirst set every operation goes
// straight to the fallback.
func NewRouter(primary, fallback Authenticator, mockFirst bool) *Router {
	return &Router{primary: primary, fallback: fallback, mockFirst: mockFirst}
}

// MockFirst reports whether operations skip the primary.
func (r *Router) MockFirst() bool {
	return r.mockFirst && r.fallback != nil
}

// next decides where the operation goes after the current stage ended with err.
// A nil Authenticator means the last result is final.
func (r *Router) next(op string, current stage, err error) (stage, Authenticator) {
	switch current {
	case stageStart:
		if r.MockFirst() {
			return stageFallback, r.fallback
		}

		return stagePrimary, r.primary
	case stagePrimary:
		if err != nil && r.fallback != nil && apiclient.IsConnection(err) {
			slog.Warn("auth server unreachable, using mock auth", "operation", op, "error", err)
			return stageFallback, r.fallback
		}
	}

	return stageDone, nil
}

func (r *Router) route(ctx context.Context, op string, call func(context.Context, Authenticator) (Response, error)) (Response, error) {
	var (
		resp Response
		err  error
	)

	current := stageStart

	for {
		var a Authenticator

		current, a = r.next(op, current, err)
		if a == nil {
			return resp, err
		}

		resp, err = call(ctx, a)
	}
}

func (r *Router) Login(ctx context.Context, email, password string) (Response, error) {
	return r.route(ctx, "login", func(ctx context.Context, a Authenticator) (Response, error) {
		return a.Login(ctx, email, password)
	})
}

func (r *Router) Register(ctx context.Context, email, password, name string) (Response, error) {
	return r.route(ctx, "register", func(ctx context.Context, a Authenticator) (Response, error) {
		return a.Register(ctx, email, password, name)
	})
}

func (r *Router) VerifyEmail(ctx context.Context, email, code string) (Response, error) {
	return r.route(ctx, "verify-email", func(ctx context.Context, a Authenticator) (Response, error) {
		return a.VerifyEmail(ctx, email, code)
	})
}

func (r *Router) ForgotPassword(ctx context.Context, email string) (Response, error) {
	return r.route(ctx, "forgot-password", func(ctx context.Context, a Authenticator) (Response, error) {
		return a.ForgotPassword(ctx, email)
	})
}

func (r *Router) ResetPassword(ctx context.Context, email, code, password string) (Response, error) {
	return r.route(ctx, "reset-password", func(ctx context.Context, a Authenticator) (Response, error) {
		return a.ResetPassword(ctx, email, code, password)
	})
}

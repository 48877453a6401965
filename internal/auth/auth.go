// Package auth signs users in against the remote API and falls back to a
// local mock identity store when the API cannot be reached.
package auth

import "context"

//go:generate mockgen -source=auth.go -destination=authenticator_mock.go -package=auth
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Response, error)
	Register(ctx context.Context, email, password, name string) (Response, error)
	VerifyEmail(ctx context.Context, email, code string) (Response, error)
	ForgotPassword(ctx context.Context, email string) (Response, error)
	ResetPassword(ctx context.Context, email, code, password string) (Response, error)
}

// Response is the server's JSON object, passed through as-is.
type Response map[string]any

// Token returns "token", or "data.token" when the server wraps its payload.
func (r Response) Token() string {
	if token, ok := r["token"].(string); ok && token != "" {
		return token
	}

	if data, ok := r["data"].(map[string]any); ok {
		if token, ok := data["token"].(string); ok {
			return token
		}
	}

	return ""
}

// Message returns the server's "message" field, if any.
func (r Response) Message() string {
	msg, _ := r["message"].(string)
	return msg
}

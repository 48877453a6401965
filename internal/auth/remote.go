package auth

import (
	"context"
	"net/http"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

// Remote talks to the real auth endpoints.
type Remote struct {
	client *apiclient.Client
}

func NewRemote(client *apiclient.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Login(ctx context.Context, email, password string) (Response, error) {
	return r.post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

func (r *Remote) Register(ctx context.Context, email, password, name string) (Response, error) {
	return r.post(ctx, "/auth/register", map[string]string{"email": email, "password": password, "name": name})
}

func (r *Remote) VerifyEmail(ctx context.Context, email, code string) (Response, error) {
	return r.post(ctx, "/auth/verify-email", map[string]string{"email": email, "code": code})
}

func (r *Remote) ForgotPassword(ctx context.Context, email string) (Response, error) {
	return r.post(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

func (r *Remote) ResetPassword(ctx context.Context, email, code, password string) (Response, error) {
	return r.post(ctx, "/auth/reset-password", map[string]string{"email": email, "code": code, "password": password})
}

func (r *Remote) post(ctx context.Context, path string, body map[string]string) (Response, error) {
	resp := Response{}
	if err := r.client.Request(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	if resp == nil {
		resp = Response{}
	}

	return resp, nil
}

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
	"github.com/MrJamesThe3rd/cashtrack/internal/auth"
)

var connErr = &apiclient.Error{Kind: apiclient.KindConnection, Message: apiclient.ConnectionMessage}

func TestRouter_Login(t *testing.T) {
	type testCase struct {
		name        string
		mockFirst   bool
		noFallback  bool
		setupMock   func(primary, fallback *auth.MockAuthenticator)
		wantToken   string
		wantErr     error
		wantErrText string
	}

	tests := []testCase{
		{
			name: "PrimarySucceeds",
			setupMock: func(p, _ *auth.MockAuthenticator) {
				p.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(auth.Response{"token": "remote"}, nil)
			},
			wantToken: "remote",
		},
		{
			name: "ConnectivityFallsBack",
			setupMock: func(p, f *auth.MockAuthenticator) {
				gomock.InOrder(
					p.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(nil, connErr),
					f.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(auth.Response{"token": "mock"}, nil),
				)
			},
			wantToken: "mock",
		},
		{
			name: "ApplicationErrorPropagates",
			setupMock: func(p, _ *auth.MockAuthenticator) {
				p.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(nil, &apiclient.Error{
					Kind: apiclient.KindApplication, Status: http.StatusUnauthorized, Message: "Invalid credentials",
				})
			},
			wantErrText: "Invalid credentials",
		},
		{
			name: "OtherErrorPropagates",
			setupMock: func(p, _ *auth.MockAuthenticator) {
				p.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(nil, context.Canceled)
			},
			wantErr: context.Canceled,
		},
		{
			name:       "NoFallbackConfigured",
			noFallback: true,
			setupMock: func(p, _ *auth.MockAuthenticator) {
				p.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(nil, connErr)
			},
			wantErr: connErr,
		},
		{
			name: "FallbackFailureIsFinal",
			setupMock: func(p, f *auth.MockAuthenticator) {
				p.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(nil, connErr)
				f.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(nil, auth.ErrInvalidCredentials)
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:      "MockFirstSkipsPrimary",
			mockFirst: true,
			setupMock: func(_, f *auth.MockAuthenticator) {
				f.EXPECT().Login(gomock.Any(), "a@b.c", "pw").Return(auth.Response{"token": "mock"}, nil)
			},
			wantToken: "mock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			primary := auth.NewMockAuthenticator(ctrl)
			fallback := auth.NewMockAuthenticator(ctrl)
			tt.setupMock(primary, fallback)

			var fb auth.Authenticator = fallback
			if tt.noFallback {
				fb = nil
			}

			resp, err := auth.NewRouter(primary, fb, tt.mockFirst).Login(context.Background(), "a@b.c", "pw")

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrText != "":
				require.EqualError(t, err, tt.wantErrText)
				assert.False(t, apiclient.IsConnection(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, resp.Token())
			}
		})
	}
}

func TestRouter_RoutesEveryOperation(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	primary := auth.NewMockAuthenticator(ctrl)
	fallback := auth.NewMockAuthenticator(ctrl)

	primary.EXPECT().Register(ctx, "e", "p", "n").Return(nil, connErr)
	fallback.EXPECT().Register(ctx, "e", "p", "n").Return(auth.Response{"message": "Registration successful!"}, nil)
	primary.EXPECT().VerifyEmail(ctx, "e", "c").Return(nil, connErr)
	fallback.EXPECT().VerifyEmail(ctx, "e", "c").Return(auth.Response{}, nil)
	primary.EXPECT().ForgotPassword(ctx, "e").Return(auth.Response{"message": "sent"}, nil)
	primary.EXPECT().ResetPassword(ctx, "e", "c", "p").Return(nil, connErr)
	fallback.EXPECT().ResetPassword(ctx, "e", "c", "p").Return(nil, auth.ErrAccountNotFound)

	r := auth.NewRouter(primary, fallback, false)

	resp, err := r.Register(ctx, "e", "p", "n")
	require.NoError(t, err)
	assert.Equal(t, "Registration successful!", resp.Message())

	_, err = r.VerifyEmail(ctx, "e", "c")
	require.NoError(t, err)

	resp, err = r.ForgotPassword(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, "sent", resp.Message())

	_, err = r.ResetPassword(ctx, "e", "c", "p")
	require.ErrorIs(t, err, auth.ErrAccountNotFound)
}

func TestRouter_RemoteUnreachableUsesMock(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	remote := auth.NewRemote(apiclient.New(url, time.Second, nil))
	r := auth.NewRouter(remote, auth.NewMock("secret"), false)

	_, err := r.Register(context.Background(), "a@b.c", "pw", "Shop")
	require.NoError(t, err)

	resp, err := r.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token())
}

func TestRouter_RemoteRejectionIsNotMasked(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer ts.Close()

	r := auth.NewRouter(auth.NewRemote(apiclient.New(ts.URL, time.Second, nil)), auth.NewMock("secret"), false)

	_, err := r.Login(context.Background(), "a@b.c", "pw")

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

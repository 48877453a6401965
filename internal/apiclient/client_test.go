package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
	"github.com/MrJamesThe3rd/cashtrack/internal/session"
)

func TestClient_Request_Success(t *testing.T) {
	var gotAuth, gotContentType string

	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		w.Write([]byte(`{"token":"abc"}`))
	}))
	defer ts.Close()

	c := apiclient.New(ts.URL+"/api/v1/", time.Second, session.New("Bearer  stored ", nil))

	var out struct {
		Token string `json:"token"`
	}

	err := c.Request(context.Background(), http.MethodPost, "/auth/login", map[string]string{"email": "a@b.c"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "abc", out.Token)
	assert.Equal(t, "Bearer stored", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "a@b.c", gotBody["email"])
}

func TestClient_Request_TokenOverrideAndNoToken(t *testing.T) {
	var headers []string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := apiclient.New(ts.URL, time.Second, nil)

	require.NoError(t, c.Request(context.Background(), http.MethodGet, "/", nil, nil))
	require.NoError(t, c.Request(context.Background(), http.MethodGet, "/", nil, nil, apiclient.WithToken("bearer explicit")))

	assert.Equal(t, []string{"", "Bearer explicit"}, headers)
}

func TestClient_Request_ApplicationErrors(t *testing.T) {
	type testCase struct {
		name   string
		status int
		body   string
		want   string
	}

	tests := []testCase{
		{name: "MessageField", status: http.StatusUnauthorized, body: `{"message":"Invalid credentials"}`, want: "Invalid credentials"},
		{name: "ErrorField", status: http.StatusBadRequest, body: `{"error":"email taken"}`, want: "email taken"},
		{name: "RawText", status: http.StatusBadGateway, body: "upstream down", want: "upstream down"},
		{name: "NonStringMessageUsesText", status: http.StatusConflict, body: `{"message":42}`, want: `{"message":42}`},
		{name: "EmptyBody", status: http.StatusNotFound, body: "", want: "HTTP 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := apiclient.New(ts.URL, time.Second, nil)
			err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)

			var apiErr *apiclient.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, apiclient.KindApplication, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Error())
			assert.False(t, apiclient.IsConnection(err))
		})
	}
}

func TestClient_Request_ConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := apiclient.New(url, time.Second, nil)
	err := c.Request(context.Background(), http.MethodGet, "/x", nil, nil)

	require.Error(t, err)
	assert.True(t, apiclient.IsConnection(err))
	assert.Equal(t, apiclient.ConnectionMessage, err.Error())
}

func TestClient_Request_CanceledIsNotConnection(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := apiclient.New(ts.URL, time.Second, nil)
	err := c.Request(ctx, http.MethodGet, "/x", nil, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, apiclient.IsConnection(err))
}

func TestClient_Request_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer ts.Close()

	var out map[string]any

	err := apiclient.New(ts.URL, time.Second, nil).Request(context.Background(), http.MethodGet, "/", nil, &out)

	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apiclient.KindDecode, apiErr.Kind)
}

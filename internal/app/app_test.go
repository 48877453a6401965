package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashtrack/internal/app"
	"github.com/MrJamesThe3rd/cashtrack/internal/config"
)

const statement = `Data mov.;Descrição;Montante
30-01-2026;SALARY;1.500,00
31-01-2026;RENT ABC;-700,00
`

func newApp(t *testing.T, dir string, env map[string]string) *app.App {
	t.Helper()

	t.Setenv("STORE_PATH", filepath.Join(dir, "cashtrack.db"))
	t.Setenv("CURRENCY", "USD")

	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return a
}

type client struct {
	t   *testing.T
	url string
}

func (c client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.url+path, reader)
	require.NoError(c.t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

func (c client) send(req *http.Request) (int, map[string]any) {
	c.t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	out := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 && data[0] == '{' {
		require.NoError(c.t, json.Unmarshal(data, &out))
	}

	return resp.StatusCode, out
}

func (c client) upload(path, name, content string) (int, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(c.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.url+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req)
}

func TestApp_LedgerOverHTTP(t *testing.T) {
	dir := t.TempDir()
	a := newApp(t, dir, map[string]string{"MOCK_AUTH": "true"})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	c := client{t: t, url: srv.URL + "/api/v1"}

	status, body := c.do(http.MethodPost, "/transactions", map[string]any{
		"description": "Sale", "amount": "150", "type": "income", "account": "cash",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Sale", body["description"])

	status, body = c.do(http.MethodPost, "/transactions", map[string]any{
		"description": "Refund", "amount": -5, "type": "expense", "account": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid amount", body["error"])

	status, body = c.do(http.MethodPut, "/balances", map[string]any{"cash": "100", "bank": 500})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "250", body["cash_balance"])
	assert.Equal(t, "750", body["total_balance"])
	assert.Equal(t, "150", body["todays_net"])
	assert.EqualValues(t, 33, body["cash_share"])
	assert.EqualValues(t, 67, body["bank_share"])

	status, body = c.do(http.MethodPut, "/currency", map[string]any{"currency": "dollars"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/matching", map[string]any{"raw_pattern": "rent", "preferred_description": "Shop rent"})
	require.Equal(t, http.StatusCreated, status)

	status, body = c.upload("/import", "extrato.csv", statement)
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 2, body["imported"])

	status, body = c.upload("/import", "extrato.csv", statement)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["imported"])

	status, _ = c.upload("/import", "extrato.pdf", statement)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodPost, "/export", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["statement"], "Shop rent")

	status, body = c.do(http.MethodPost, "/auth/register", map[string]any{"email": "a@b.co", "password": "pw", "name": "Shop"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Registration successful!", body["message"])

	status, _ = c.do(http.MethodPost, "/auth/login", map[string]any{"email": "a@b.co", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = c.do(http.MethodPost, "/auth/login", map[string]any{"email": " a@b.co ", "password": "pw"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, body = c.do(http.MethodGet, "/auth/status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, true, body["mock"])

	require.NoError(t, a.Close())

	reopened := newApp(t, dir, map[string]string{"MOCK_AUTH": "true"})

	assert.Len(t, reopened.Transactions.All(), 3)
	assert.True(t, reopened.Session.Authenticated())
	assert.Equal(t, "USD", reopened.State.Currency())
	assert.Equal(t, "$250.00", reopened.Format(reopened.Summary(time.Now()).CashBalance))
}

func TestApp_AuthFallsBackWhenAPIUnreachable(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	a := newApp(t, t.TempDir(), map[string]string{"API_BASE_URL": downURL, "API_TIMEOUT": "2s"})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	c := client{t: t, url: srv.URL + "/api/v1"}

	status, _ := c.do(http.MethodPost, "/auth/register", map[string]any{"email": "x@y.z", "password": "pw", "name": "Kiosk"})
	require.Equal(t, http.StatusOK, status)

	status, body := c.do(http.MethodPost, "/auth/login", map[string]any{"email": "x@y.z", "password": "pw"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, body = c.do(http.MethodGet, "/wallets", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "connection error", body["error"])

	status, body = c.do(http.MethodGet, "/auth/status", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, false, body["mock"])
}

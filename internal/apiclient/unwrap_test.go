package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashtrack/internal/apiclient"
)

type item struct {
	ID string `json:"id"`
}

func TestUnwrapList(t *testing.T) {
	type testCase struct {
		name    string
		raw     string
		want    []item
		wantErr bool
	}

	tests := []testCase{
		{name: "BareArray", raw: `[{"id":"a"},{"id":"b"}]`, want: []item{{ID: "a"}, {ID: "b"}}},
		{name: "DataEnvelope", raw: `{"data":[{"id":"a"}],"total":1}`, want: []item{{ID: "a"}}},
		{name: "EnvelopeWithoutData", raw: `{"total":0}`, want: []item{}},
		{name: "Null", raw: `null`, want: []item{}},
		{name: "Empty", raw: ``, want: []item{}},
		{name: "NotAList", raw: `"nope"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apiclient.UnwrapList[item](json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnwrapObject(t *testing.T) {
	got, err := apiclient.UnwrapObject[item](json.RawMessage(`{"data":{"id":"inner"}}`))
	require.NoError(t, err)
	assert.Equal(t, "inner", got.ID)

	got, err = apiclient.UnwrapObject[item](json.RawMessage(`{"id":"bare","data":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "bare", got.ID)

	got, err = apiclient.UnwrapObject[item](nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"w1"}]}`))
	}))
	defer ts.Close()

	got, err := apiclient.List[item](context.Background(), apiclient.New(ts.URL, time.Second, nil), "/wallets")
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "w1"}}, got)
}

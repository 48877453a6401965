package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
	"github.com/MrJamesThe3rd/cashtrack/internal/snapshot"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

// memKV is an in-memory KV used where call expectations add nothing.
type memKV map[string][]byte

func (m memKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, snapshot.ErrNotFound
	}

	return v, nil
}

func (m memKV) Put(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

func TestAdapter_SaveLoadRoundTrip(t *testing.T) {
	kv := memKV{}
	a := snapshot.NewAdapter(kv, "", "NGN")

	in := snapshot.Snapshot{
		Token:    "tok",
		Currency: "USD",
		StartingBalances: ledger.StartingBalances{
			Cash: decimal.RequireFromString("1000.50"),
			Bank: decimal.NewFromInt(5000),
		},
		Transactions: []*transaction.Transaction{
			{
				ID:          "t1",
				Description: "Sale",
				Amount:      decimal.RequireFromString("12.34"),
				Type:        transaction.TypeIncome,
				Account:     transaction.AccountCash,
				Date:        "2026-10-17",
				Time:        "09:15",
				Timestamp:   1792228500000,
			},
		},
		Profile: &profile.Profile{BusinessName: "Kiosk"},
	}

	require.NoError(t, a.Save(context.Background(), in))
	assert.Contains(t, kv, snapshot.DefaultKey)
	assert.Contains(t, string(kv[snapshot.DefaultKey]), `"amount":12.34`)

	out := a.Load(context.Background())

	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, "USD", out.Currency)
	assert.True(t, in.StartingBalances.Cash.Equal(out.StartingBalances.Cash))
	assert.True(t, in.StartingBalances.Bank.Equal(out.StartingBalances.Bank))
	require.Len(t, out.Transactions, 1)

	got := out.Transactions[0]
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "Sale", got.Description)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("12.34")))
	assert.Equal(t, transaction.TypeIncome, got.Type)
	assert.Equal(t, transaction.AccountCash, got.Account)
	assert.Equal(t, "2026-10-17", got.Date)
	assert.Equal(t, "09:15", got.Time)
	assert.Equal(t, int64(1792228500000), got.Timestamp)
	require.NotNil(t, out.Profile)
	assert.Equal(t, "Kiosk", out.Profile.BusinessName)
}

func TestAdapter_Load_Defaults(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *snapshot.MockKV)
	}

	tests := []testCase{
		{
			name: "MissingKey",
			setupMock: func(m *snapshot.MockKV) {
				m.EXPECT().Get(gomock.Any(), "state").Return(nil, snapshot.ErrNotFound)
			},
		},
		{
			name: "ReadFailure",
			setupMock: func(m *snapshot.MockKV) {
				m.EXPECT().Get(gomock.Any(), "state").Return(nil, errors.New("disk error"))
			},
		},
		{
			name: "CorruptedPayload",
			setupMock: func(m *snapshot.MockKV) {
				m.EXPECT().Get(gomock.Any(), "state").Return([]byte(`{"token": "abc"`), nil)
			},
		},
		{
			name: "NotAnObject",
			setupMock: func(m *snapshot.MockKV) {
				m.EXPECT().Get(gomock.Any(), "state").Return([]byte(`[1,2,3]`), nil)
			},
		},
		{
			name: "Null",
			setupMock: func(m *snapshot.MockKV) {
				m.EXPECT().Get(gomock.Any(), "state").Return([]byte(`null`), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			kv := snapshot.NewMockKV(ctrl)
			tt.setupMock(kv)

			got := snapshot.NewAdapter(kv, "state", "NGN").Load(context.Background())

			assert.Equal(t, snapshot.Default("NGN"), got)
		})
	}
}

func TestAdapter_Load_FieldFallback(t *testing.T) {
	kv := memKV{snapshot.DefaultKey: []byte(`{
		"token": 42,
		"currency": "",
		"startingBalances": {"cash": "250.75", "bank": "lots"},
		"transactions": [
			{"id": "a", "description": "String amount", "amount": "10.5", "type": "expense", "account": "bank", "date": "2026-10-16"},
			"garbage",
			{"id": "b", "amount": "NaN", "type": "income", "account": "cash", "timestamp": "soon"},
			{"id": "c", "amount": {"value": 3}, "type": "income", "account": "cash"},
			null
		],
		"profile": "not an object"
	}`)}

	got := snapshot.NewAdapter(kv, "", "NGN").Load(context.Background())

	assert.Empty(t, got.Token)
	assert.Equal(t, "NGN", got.Currency)
	assert.True(t, got.StartingBalances.Cash.Equal(decimal.RequireFromString("250.75")))
	assert.True(t, got.StartingBalances.Bank.IsZero())
	assert.Nil(t, got.Profile)

	require.Len(t, got.Transactions, 3)
	assert.Equal(t, "a", got.Transactions[0].ID)
	assert.True(t, got.Transactions[0].Amount.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, "b", got.Transactions[1].ID)
	assert.True(t, got.Transactions[1].Amount.IsZero())
	assert.Zero(t, got.Transactions[1].Timestamp)
	assert.True(t, got.Transactions[2].Amount.IsZero())
}

func TestAdapter_Load_OutOfRangeValues(t *testing.T) {
	kv := memKV{snapshot.DefaultKey: []byte(`{
		"token": "  Bearer stored-token ",
		"startingBalances": {"cash": 1e400, "bank": -75.5},
		"transactions": [
			{"id": "huge", "amount": 1e400, "type": "income", "account": "cash"},
			{"id": "huge-string", "amount": "1e9000000", "type": "income", "account": "cash"},
			{"id": "negative", "amount": -50, "type": "expense", "account": "bank"},
			{"id": "zero", "amount": 0, "type": "expense", "account": "bank"},
			{"id": "far-future", "amount": 5, "type": "income", "account": "cash", "timestamp": 1e300},
			{"id": "far-past", "amount": 5, "type": "income", "account": "cash", "timestamp": -1e300},
			{"id": "ok", "amount": 12.5, "type": "income", "account": "cash", "timestamp": 1760700000000}
		]
	}`)}

	got := snapshot.NewAdapter(kv, "", "NGN").Load(context.Background())

	assert.Equal(t, "stored-token", got.Token)
	assert.True(t, got.StartingBalances.Cash.IsZero())
	assert.True(t, got.StartingBalances.Bank.Equal(decimal.RequireFromString("-75.5")))

	require.Len(t, got.Transactions, 7)

	for _, tx := range got.Transactions[:4] {
		assert.True(t, tx.Amount.IsZero(), "%s: %s", tx.ID, tx.Amount)
	}

	assert.Zero(t, got.Transactions[4].Timestamp)
	assert.Zero(t, got.Transactions[5].Timestamp)
	assert.True(t, got.Transactions[6].Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, int64(1760700000000), got.Transactions[6].Timestamp)
}

func TestAdapter_Load_TransactionsFieldUnusable(t *testing.T) {
	kv := memKV{snapshot.DefaultKey: []byte(`{"token":"keep","transactions":{"id":"x"}}`)}

	got := snapshot.NewAdapter(kv, "", "NGN").Load(context.Background())

	assert.Equal(t, "keep", got.Token)
	assert.Empty(t, got.Transactions)
}

func TestAdapter_Save_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := snapshot.NewMockKV(ctrl)
	kv.EXPECT().Put(gomock.Any(), snapshot.DefaultKey, gomock.Any()).Return(errors.New("read-only"))

	err := snapshot.NewAdapter(kv, "", "NGN").Save(context.Background(), snapshot.Default("NGN"))

	require.ErrorContains(t, err, "read-only")
}

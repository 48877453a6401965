package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var fixedNow = time.Date(2026, 10, 17, 14, 30, 0, 0, time.UTC)

func newService(t *testing.T, repo transaction.Repository, txs ...*transaction.Transaction) *transaction.Service {
	t.Helper()

	return transaction.NewService(repo, txs, transaction.WithClock(func() time.Time { return fixedNow }))
}

func TestService_Add(t *testing.T) {
	type args struct {
		form transaction.Form
	}

	type testCase struct {
		name   string
		args   args
		verify func(t *testing.T, tx *transaction.Transaction)
	}

	tests := []testCase{
		{
			name: "DefaultsDateAndTime",
			args: args{form: transaction.Form{
				Description: "  Market run ",
				Amount:      "30",
				Type:        transaction.TypeExpense,
				Account:     transaction.AccountCash,
			}},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "Market run", tx.Description)
				assert.Equal(t, "2026-10-17", tx.Date)
				assert.Equal(t, "14:30", tx.Time)
				assert.Equal(t, fixedNow.UnixMilli(), tx.Timestamp)
			},
		},
		{
			name: "ExplicitDateAndTime",
			args: args{form: transaction.Form{
				Description: "Salary",
				Amount:      "200.50",
				Type:        transaction.TypeIncome,
				Account:     transaction.AccountBank,
				Date:        "2026-01-02",
				Time:        "09:15",
			}},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.True(t, decimal.RequireFromString("200.5").Equal(tx.Amount))
				assert.Equal(t, time.Date(2026, 1, 2, 9, 15, 0, 0, time.UTC).UnixMilli(), tx.Timestamp)
			},
		},
		{
			name: "UnparseableDateFallsBackToNow",
			args: args{form: transaction.Form{
				Description: "Taxi",
				Amount:      "12",
				Type:        transaction.TypeExpense,
				Account:     transaction.AccountCash,
				Date:        "next tuesday",
			}},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "next tuesday", tx.Date)
				assert.Equal(t, fixedNow.UnixMilli(), tx.Timestamp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			repo.EXPECT().
				SaveTransactions(gomock.Any(), gomock.Len(1)).
				Return(nil)

			svc := newService(t, repo)

			got, err := svc.Add(context.Background(), tt.args.form)
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.args.form.Type, got.Type)
			assert.Equal(t, tt.args.form.Account, got.Account)
			assert.Len(t, svc.All(), 1)

			tt.verify(t, got)
		})
	}
}

func TestService_Add_Validation(t *testing.T) {
	valid := transaction.Form{
		Description: "Rent",
		Amount:      "100",
		Type:        transaction.TypeExpense,
		Account:     transaction.AccountBank,
	}

	type testCase struct {
		name    string
		mutate  func(f *transaction.Form)
		wantErr error
	}

	tests := []testCase{
		{name: "BlankDescription", mutate: func(f *transaction.Form) { f.Description = "   " }, wantErr: transaction.ErrMissingDescription},
		{name: "ZeroAmount", mutate: func(f *transaction.Form) { f.Amount = "0" }, wantErr: transaction.ErrInvalidAmount},
		{name: "NegativeAmount", mutate: func(f *transaction.Form) { f.Amount = "-5" }, wantErr: transaction.ErrInvalidAmount},
		{name: "EmptyAmount", mutate: func(f *transaction.Form) { f.Amount = "" }, wantErr: transaction.ErrInvalidAmount},
		{name: "NotANumber", mutate: func(f *transaction.Form) { f.Amount = "NaN" }, wantErr: transaction.ErrInvalidAmount},
		{name: "Infinity", mutate: func(f *transaction.Form) { f.Amount = "Infinity" }, wantErr: transaction.ErrInvalidAmount},
		{name: "OverflowsFloat", mutate: func(f *transaction.Form) { f.Amount = "1e400" }, wantErr: transaction.ErrInvalidAmount},
		{name: "HugeExponent", mutate: func(f *transaction.Form) { f.Amount = "1e9000000" }, wantErr: transaction.ErrInvalidAmount},
		{name: "UnderflowsToZero", mutate: func(f *transaction.Form) { f.Amount = "1e-400" }, wantErr: transaction.ErrInvalidAmount},
		{name: "UnknownType", mutate: func(f *transaction.Form) { f.Type = "transfer" }, wantErr: transaction.ErrInvalidType},
		{name: "UnknownAccount", mutate: func(f *transaction.Form) { f.Account = "card" }, wantErr: transaction.ErrInvalidAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No EXPECT: any write-through would fail the test.
			repo := transaction.NewMockRepository(ctrl)
			svc := newService(t, repo)

			form := valid
			tt.mutate(&form)

			got, err := svc.Add(context.Background(), form)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			assert.Empty(t, svc.All())
		})
	}
}

func TestService_AddThenRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing := &transaction.Transaction{
		ID:      "keep",
		Amount:  decimal.NewFromInt(10),
		Type:    transaction.TypeIncome,
		Account: transaction.AccountCash,
	}

	repo := transaction.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().SaveTransactions(gomock.Any(), gomock.Len(2)).Return(nil),
		repo.EXPECT().SaveTransactions(gomock.Any(), gomock.Len(1)).Return(nil),
	)

	svc := newService(t, repo, existing)

	tx, err := svc.Add(context.Background(), transaction.Form{
		Description: "Snack",
		Amount:      "2.5",
		Type:        transaction.TypeExpense,
		Account:     transaction.AccountCash,
	})
	require.NoError(t, err)
	assert.Equal(t, tx.ID, svc.All()[0].ID, "new transactions are prepended")

	require.NoError(t, svc.Remove(context.Background(), tx.ID))
	assert.Equal(t, []*transaction.Transaction{existing}, svc.All())
}

func TestService_Remove_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := newService(t, repo, &transaction.Transaction{ID: "a"})

	require.NoError(t, svc.Remove(context.Background(), "missing"))
	assert.Len(t, svc.All(), 1)
}

func TestService_Add_PersistFailureKeepsTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveTransactions(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	svc := newService(t, repo)

	tx, err := svc.Add(context.Background(), transaction.Form{
		Description: "Fuel",
		Amount:      "40",
		Type:        transaction.TypeExpense,
		Account:     transaction.AccountBank,
	})
	require.NoError(t, err)

	got, err := svc.Get(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newService(t, transaction.NewMockRepository(ctrl))

	_, err := svc.Get("nope")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_ListSorted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txs := []*transaction.Transaction{
		{ID: "old", Timestamp: 1_000},
		{ID: "garbage", Date: "not-a-date"},
		{ID: "newest", Timestamp: 9_000_000_000_000},
		{ID: "derived", Date: "2001-01-01", Time: "10:00"},
		{ID: "midnight", Date: "2001-01-01"},
	}

	svc := newService(t, transaction.NewMockRepository(ctrl), txs...)

	collect := func() []string {
		var ids []string
		for tx := range svc.ListSorted() {
			ids = append(ids, tx.ID)
		}

		return ids
	}

	want := []string{"newest", "derived", "midnight", "old", "garbage"}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect(), "sequence is restartable")

	var first []string
	for tx := range svc.ListSorted() {
		first = append(first, tx.ID)
		break
	}

	assert.Equal(t, []string{"newest"}, first)
}

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing := &transaction.Transaction{
		ID:          "existing",
		Description: "COFFEE SHOP",
		Amount:      decimal.RequireFromString("10.00"),
		Type:        transaction.TypeExpense,
		Account:     transaction.AccountBank,
		Date:        "2024-01-15",
		Time:        "00:00",
	}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveTransactions(gomock.Any(), gomock.Len(2)).Return(nil)

	svc := newService(t, repo, existing)

	forms := []transaction.Form{
		{Description: "COFFEE SHOP", Amount: "10", Type: transaction.TypeExpense, Account: transaction.AccountBank, Date: "2024-01-15", Time: "00:00"},
		{Description: "LUNCH PLACE", Amount: "20", Type: transaction.TypeExpense, Account: transaction.AccountBank, Date: "2024-01-15", Time: "00:00"},
	}

	result, err := svc.Import(context.Background(), forms)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "LUNCH PLACE", result.Imported[0].Description)
	assert.Equal(t, []transaction.Form{forms[0]}, result.Duplicates)
	assert.Len(t, svc.All(), 2)
}

func TestService_Import_InvalidRowRejectsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newService(t, transaction.NewMockRepository(ctrl))

	_, err := svc.Import(context.Background(), []transaction.Form{
		{Description: "ok", Amount: "1", Type: transaction.TypeIncome, Account: transaction.AccountBank},
		{Description: "bad", Amount: "0", Type: transaction.TypeIncome, Account: transaction.AccountBank},
	})
	require.ErrorIs(t, err, transaction.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "row 2")
	assert.Empty(t, svc.All())
}

func TestService_Import_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newService(t, transaction.NewMockRepository(ctrl))

	result, err := svc.Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Duplicates)
}

func TestFloatRange(t *testing.T) {
	type testCase struct {
		name   string
		input  string
		want   string
		wantOK bool
	}

	tests := []testCase{
		{name: "Ordinary", input: "1250.75", want: "1250.75", wantOK: true},
		{name: "Zero", input: "0", want: "0", wantOK: true},
		{name: "Negative", input: "-30", want: "-30", wantOK: true},
		{name: "MaxFloat", input: "1.7976931348623157e308", want: "1.7976931348623157e308", wantOK: true},
		{name: "JustAboveMaxFloat", input: "1.8e308", want: "0"},
		{name: "Overflow", input: "1e400", want: "0"},
		{name: "NegativeOverflow", input: "-1e400", want: "0"},
		{name: "Underflow", input: "1e-400", want: "0", wantOK: true},
		{name: "SmallButRepresentable", input: "1e-300", want: "1e-300", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := transaction.FloatRange(decimal.RequireFromString(tt.input))
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

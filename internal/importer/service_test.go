package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashtrack/internal/importer"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

const statement = `Data mov.;Descrição;Montante
30-01-2026;SALARY;1.500,00
31-01-2026;RENT;-700,00
`

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveTransactions(gomock.Any(), gomock.Len(2)).Return(nil)

	now := func() time.Time { return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC) }
	ledger := transaction.NewService(repo, nil, transaction.WithClock(now))
	svc := importer.NewService(ledger)

	res, err := svc.Import(ctx, importer.FormatCGD, strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, res.Imported, 2)
	assert.Empty(t, res.Duplicates)

	for _, tx := range ledger.All() {
		assert.Equal(t, transaction.AccountBank, tx.Account)
	}

	// The same file again only yields duplicates.
	res, err = svc.Import(ctx, importer.FormatCGD, strings.NewReader(statement))
	require.NoError(t, err)
	assert.Empty(t, res.Imported)
	assert.Len(t, res.Duplicates, 2)
}

func TestService_UnknownFormat(t *testing.T) {
	svc := importer.NewService(nil)

	_, err := svc.Parse("qif", strings.NewReader(""))
	require.ErrorIs(t, err, importer.ErrUnknownFormat)
}

func TestDetectFormat(t *testing.T) {
	type testCase struct {
		name    string
		file    string
		want    importer.Format
		wantErr bool
	}

	tests := []testCase{
		{name: "CSV", file: "extrato.CSV", want: importer.FormatCGD},
		{name: "OFX", file: "/tmp/statement.ofx", want: importer.FormatOFX},
		{name: "QFX", file: "statement.qfx", want: importer.FormatOFX},
		{name: "Unknown", file: "statement.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.DetectFormat(tt.file)
			if tt.wantErr {
				require.ErrorIs(t, err, importer.ErrUnknownFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type rentMatcher struct{}

func (rentMatcher) Apply(_ context.Context, forms []transaction.Form) []transaction.Form {
	for i := range forms {
		if forms[i].Description == "RENT" {
			forms[i].Description = "Shop rent"
		}
	}

	return forms
}

func TestService_ImportAppliesMatcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveTransactions(gomock.Any(), gomock.Any()).Return(nil)

	ledger := transaction.NewService(repo, nil)
	svc := importer.NewService(ledger, importer.WithMatcher(rentMatcher{}))

	res, err := svc.Import(context.Background(), importer.FormatCGD, strings.NewReader(statement))
	require.NoError(t, err)

	var descriptions []string
	for _, tx := range res.Imported {
		descriptions = append(descriptions, tx.Description)
	}

	assert.ElementsMatch(t, []string{"SALARY", "Shop rent"}, descriptions)
}

func TestService_ParseInvalidStatement(t *testing.T) {
	svc := importer.NewService(nil)

	_, err := svc.Parse(importer.FormatCGD, strings.NewReader("just;some;text\n1;2;3\n"))
	require.ErrorIs(t, err, importer.ErrInvalidStatement)
}

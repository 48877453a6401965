package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cashtrack/internal/matching"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern     string
		description string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "TrimsAndStores",
			args: args{pattern: "  TRF POS 123 ", description: " Groceries "},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), "TRF POS 123", "Groceries").Return(nil)
			},
		},
		{
			name:    "EmptyPattern",
			args:    args{pattern: " ", description: "Groceries"},
			wantErr: matching.ErrEmptyRule,
		},
		{
			name:    "EmptyDescription",
			args:    args{pattern: "POS", description: ""},
			wantErr: matching.ErrEmptyRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := matching.NewService(repo).Learn(context.Background(), tt.args.pattern, tt.args.description)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "COMPRA CONTINENTE").Return("Groceries", nil)
	repo.EXPECT().FindMatch(gomock.Any(), "SALARY").Return("", nil)
	repo.EXPECT().FindMatch(gomock.Any(), "BROKEN").Return("", errors.New("db down"))

	forms := []transaction.Form{
		{Description: "COMPRA CONTINENTE", Amount: "10"},
		{Description: "SALARY", Amount: "1000"},
		{Description: "BROKEN", Amount: "1"},
	}

	got := matching.NewService(repo).Apply(context.Background(), forms)

	assert.Equal(t, "Groceries", got[0].Description)
	assert.Equal(t, "SALARY", got[1].Description)
	assert.Equal(t, "BROKEN", got[2].Description)
}

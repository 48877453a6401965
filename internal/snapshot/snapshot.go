// Package snapshot persists the whole client state as one JSON document
// under a single key.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

const DefaultKey = "cashtrack_state"

var ErrNotFound = errors.New("snapshot not found")

//go:generate mockgen -source=snapshot.go -destination=kv_mock.go -package=snapshot
type KV interface {
	// Get returns ErrNotFound when key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Snapshot is everything the client keeps between runs.
type Snapshot struct {
	Token            string
	Currency         string
	StartingBalances ledger.StartingBalances
	Transactions     []*transaction.Transaction
	Profile          *profile.Profile
}

// Default is the state of a fresh install.
func Default(currency string) Snapshot {
	return Snapshot{
		Currency:     currency,
		Transactions: []*transaction.Transaction{},
	}
}

type wireBalances struct {
	Cash json.Number `json:"cash"`
	Bank json.Number `json:"bank"`
}

type wireTransaction struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Account     string      `json:"account"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Timestamp   int64       `json:"timestamp"`
}

type wireSnapshot struct {
	Token            string            `json:"token"`
	Currency         string            `json:"currency"`
	StartingBalances wireBalances      `json:"startingBalances"`
	Transactions     []wireTransaction `json:"transactions"`
	Profile          *profile.Profile  `json:"profile"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// MarshalJSON writes amounts as plain JSON numbers.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := wireSnapshot{
		Token:    s.Token,
		Currency: s.Currency,
		StartingBalances: wireBalances{
			Cash: number(s.StartingBalances.Cash),
			Bank: number(s.StartingBalances.Bank),
		},
		Transactions: make([]wireTransaction, 0, len(s.Transactions)),
		Profile:      s.Profile,
	}

	for _, tx := range s.Transactions {
		w.Transactions = append(w.Transactions, wireTransaction{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      number(tx.Amount),
			Type:        string(tx.Type),
			Account:     string(tx.Account),
			Date:        tx.Date,
			Time:        tx.Time,
			Timestamp:   tx.Timestamp,
		})
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	return data, nil
}

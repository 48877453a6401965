package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
	"github.com/MrJamesThe3rd/cashtrack/internal/session"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

// Adapter reads and writes the Snapshot stored under one key.
type Adapter struct {
	kv              KV
	key             string
	defaultCurrency string
}

func NewAdapter(kv KV, key, defaultCurrency string) *Adapter {
	if key == "" {
		key = DefaultKey
	}

	return &Adapter{kv: kv, key: key, defaultCurrency: defaultCurrency}
}

// Load never fails. A missing key yields the defaults; an unreadable payload
// yields the defaults with a warning; a field that does not decode keeps its
// default and the rest of the document is still used.
func (a *Adapter) Load(ctx context.Context) Snapshot {
	snap := Default(a.defaultCurrency)

	data, err := a.kv.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("failed to read snapshot", "key", a.key, "error", err)
		}

		return snap
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		slog.Warn("discarding unreadable snapshot", "key", a.key, "error", err)
		return snap
	}

	if raw, ok := fields["token"]; ok {
		if err := json.Unmarshal(raw, &snap.Token); err != nil {
			slog.Warn("ignoring snapshot field", "field", "token", "error", err)
		}

		snap.Token = session.Normalize(snap.Token)
	}

	if raw, ok := fields["currency"]; ok {
		var currency string
		if err := json.Unmarshal(raw, &currency); err != nil {
			slog.Warn("ignoring snapshot field", "field", "currency", "error", err)
		} else if currency = strings.TrimSpace(currency); currency != "" {
			snap.Currency = currency
		}
	}

	if raw, ok := fields["startingBalances"]; ok {
		var balances map[string]json.RawMessage
		if err := json.Unmarshal(raw, &balances); err != nil {
			slog.Warn("ignoring snapshot field", "field", "startingBalances", "error", err)
		} else {
			snap.StartingBalances.Cash = amount(balances["cash"])
			snap.StartingBalances.Bank = amount(balances["bank"])
		}
	}

	if raw, ok := fields["transactions"]; ok {
		txs, err := decodeTransactions(raw)
		if err != nil {
			slog.Warn("ignoring snapshot field", "field", "transactions", "error", err)
		} else {
			snap.Transactions = txs
		}
	}

	if raw, ok := fields["profile"]; ok && !isNull(raw) {
		var p profile.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			slog.Warn("ignoring snapshot field", "field", "profile", "error", err)
		} else {
			snap.Profile = &p
		}
	}

	return snap
}

// Save overwrites the stored document with snap.
func (a *Adapter) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err := a.kv.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

func decodeTransactions(raw json.RawMessage) ([]*transaction.Transaction, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	txs := make([]*transaction.Transaction, 0, len(items))

	for _, item := range items {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil || fields == nil {
			continue
		}

		txs = append(txs, &transaction.Transaction{
			ID:          text(fields["id"]),
			Description: text(fields["description"]),
			Amount:      positive(amount(fields["amount"])),
			Type:        transaction.Type(text(fields["type"])),
			Account:     transaction.Account(text(fields["account"])),
			Date:        text(fields["date"]),
			Time:        text(fields["time"]),
			Timestamp:   timestamp(fields["timestamp"]),
		})
	}

	return txs, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func text(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}

	return s
}

// amount accepts a JSON number or a numeric string within the range of a
// float64; anything else is zero.
func amount(raw json.RawMessage) decimal.Decimal {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		var n json.Number
		if json.Unmarshal(raw, &n) != nil {
			return decimal.Zero
		}

		s = n.String()
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	d, ok := transaction.FloatRange(d)
	if !ok {
		return decimal.Zero
	}

	return d
}

// positive keeps transaction amounts above zero. The direction of a
// transaction is its type, so a stored sign is not trusted.
func positive(d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}

	return d
}

func timestamp(raw json.RawMessage) int64 {
	var f float64
	if json.Unmarshal(raw, &f) != nil || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0
	}

	return int64(f)
}

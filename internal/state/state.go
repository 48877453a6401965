// Package state holds the in-memory Snapshot and writes the whole of it
// through to storage after every change.
package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
	"github.com/MrJamesThe3rd/cashtrack/internal/snapshot"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var ErrInvalidCurrency = errors.New("invalid currency")

//go:generate mockgen -source=state.go -destination=saver_mock.go -package=state
type Saver interface {
	Save(ctx context.Context, snap snapshot.Snapshot) error
}

type Store struct {
	saver Saver

	mu   sync.RWMutex
	snap snapshot.Snapshot
}

func New(saver Saver, initial snapshot.Snapshot) *Store {
	initial.Transactions = slices.Clone(initial.Transactions)
	return &Store{saver: saver, snap: initial}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.Transactions = slices.Clone(s.snap.Transactions)

	return snap
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.Token
}

func (s *Store) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.Currency
}

func (s *Store) StartingBalances() ledger.StartingBalances {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.StartingBalances
}

func (s *Store) Transactions() []*transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.snap.Transactions)
}

func (s *Store) Profile() *profile.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.Profile
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.commit(ctx, func(snap *snapshot.Snapshot) { snap.Token = token })
}

// SetCurrency stores an upper-cased three letter currency code.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	return s.commit(ctx, func(snap *snapshot.Snapshot) { snap.Currency = code })
}

func (s *Store) SetStartingBalances(ctx context.Context, balances ledger.StartingBalances) error {
	return s.commit(ctx, func(snap *snapshot.Snapshot) { snap.StartingBalances = balances })
}

func (s *Store) SaveTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	txs = slices.Clone(txs)
	return s.commit(ctx, func(snap *snapshot.Snapshot) { snap.Transactions = txs })
}

func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) error {
	return s.commit(ctx, func(snap *snapshot.Snapshot) { snap.Profile = p })
}

// commit applies change in memory and then saves the whole snapshot. The
// in-memory change stands even when the save fails.
func (s *Store) commit(ctx context.Context, change func(*snapshot.Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	change(&s.snap)

	if err := s.saver.Save(ctx, s.snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	return nil
}

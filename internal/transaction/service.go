package transaction

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	SaveTransactions(ctx context.Context, txs []*Transaction) error
}

// Form is the raw user input for a new transaction. Blank Date and Time
// default to the current day and clock time.
type Form struct {
	Description string
	Amount      string
	Type        Type
	Account     Account
	Date        string
	Time        string
}

type Option func(*Service)

// WithClock overrides the time source used for defaults and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the in-memory transaction collection and writes every change
// through to the Repository.
type Service struct {
	repo Repository
	now  func() time.Time

	mu  sync.RWMutex
	txs []*Transaction
}

func NewService(repo Repository, txs []*Transaction, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
		txs:  slices.Clone(txs),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ParseAmount accepts a finite decimal strictly greater than zero. Finite
// means within the range of a float64.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	d, ok := FloatRange(d)
	if !ok || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

// Add validates the form and prepends the resulting transaction.
func (s *Service) Add(ctx context.Context, form Form) (*Transaction, error) {
	tx, err := s.build(form)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = append([]*Transaction{tx}, s.txs...)
	s.persist(ctx)

	return tx, nil
}

// Remove deletes the transaction with the given id. Unknown ids are ignored.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.txs, func(tx *Transaction) bool { return tx.ID == id })
	if idx < 0 {
		return nil
	}

	s.txs = slices.Delete(s.txs, idx, idx+1)
	s.persist(ctx)

	return nil
}

func (s *Service) Get(id string) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}

	return nil, ErrNotFound
}

// All returns the collection in insertion order, newest first.
func (s *Service) All() []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.txs)
}

// ListSorted yields every transaction by descending effective timestamp.
// Each iteration takes a fresh copy of the collection.
func (s *Service) ListSorted() iter.Seq[*Transaction] {
	return func(yield func(*Transaction) bool) {
		for _, tx := range s.sorted() {
			if !yield(tx) {
				return
			}
		}
	}
}

func (s *Service) sorted() []*Transaction {
	type keyed struct {
		tx *Transaction
		ts int64
	}

	s.mu.RLock()
	items := make([]keyed, len(s.txs))
	for i, tx := range s.txs {
		items[i] = keyed{tx: tx, ts: tx.EffectiveTimestamp()}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(items, func(a, b keyed) int {
		return cmp.Compare(b.ts, a.ts)
	})

	out := make([]*Transaction, len(items))
	for i, item := range items {
		out[i] = item.tx
	}

	return out
}

type ImportResult struct {
	Imported   []*Transaction
	Duplicates []Form
}

// Import validates every form before touching the collection, then adds the
// ones that do not duplicate an existing transaction in a single write.
func (s *Service) Import(ctx context.Context, forms []Form) (*ImportResult, error) {
	if len(forms) == 0 {
		return &ImportResult{}, nil
	}

	built := make([]*Transaction, len(forms))

	for i, f := range forms {
		tx, err := s.build(f)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		built[i] = tx
	}

	type dupKey struct {
		Date        string
		Amount      string
		Type        Type
		Account     Account
		Description string
	}

	keyOf := func(tx *Transaction) dupKey {
		return dupKey{
			Date:        tx.Date,
			Amount:      tx.Amount.String(),
			Type:        tx.Type,
			Account:     tx.Account,
			Description: tx.Description,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[dupKey]struct{}, len(s.txs))
	for _, tx := range s.txs {
		existing[keyOf(tx)] = struct{}{}
	}

	result := &ImportResult{}

	for i, tx := range built {
		if _, found := existing[keyOf(tx)]; found {
			result.Duplicates = append(result.Duplicates, forms[i])
			continue
		}

		result.Imported = append(result.Imported, tx)
	}

	if len(result.Imported) == 0 {
		return result, nil
	}

	s.txs = append(slices.Clone(result.Imported), s.txs...)
	s.persist(ctx)

	return result, nil
}

// persist must be called with mu held so writes land in mutation order.
func (s *Service) persist(ctx context.Context) {
	if err := s.repo.SaveTransactions(ctx, slices.Clone(s.txs)); err != nil {
		slog.Warn("failed to persist transactions", "error", err)
	}
}

func (s *Service) build(form Form) (*Transaction, error) {
	desc := strings.TrimSpace(form.Description)
	if desc == "" {
		return nil, ErrMissingDescription
	}

	amount, err := ParseAmount(form.Amount)
	if err != nil {
		return nil, err
	}

	if !form.Type.Valid() {
		return nil, ErrInvalidType
	}

	if !form.Account.Valid() {
		return nil, ErrInvalidAccount
	}

	now := s.now()

	date := strings.TrimSpace(form.Date)
	if date == "" {
		date = now.Format(DateLayout)
	}

	clock := strings.TrimSpace(form.Time)
	if clock == "" {
		clock = now.Format(TimeLayout)
	}

	ts, ok := composeTimestamp(date, clock, now.Location())
	if !ok {
		ts = now.UnixMilli()
	}

	return &Transaction{
		ID:          uuid.NewString(),
		Description: desc,
		Amount:      amount,
		Type:        form.Type,
		Account:     form.Account,
		Date:        date,
		Time:        clock,
		Timestamp:   ts,
	}, nil
}

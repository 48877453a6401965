package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/money"
	"github.com/MrJamesThe3rd/cashtrack/internal/state"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

type Transactions interface {
	All() []*transaction.Transaction
}

type Settings interface {
	Currency() string
	StartingBalances() ledger.StartingBalances
	SetCurrency(ctx context.Context, code string) error
	SetStartingBalances(ctx context.Context, balances ledger.StartingBalances) error
}

type Handler struct {
	txs       Transactions
	settings  Settings
	formatter *money.Formatter
	now       func() time.Time
}

func NewHandler(txs Transactions, settings Settings, formatter *money.Formatter) *Handler {
	return &Handler{
		txs:       txs,
		settings:  settings,
		formatter: formatter,
		now:       time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Put("/balances", h.setBalances)
	r.Put("/currency", h.setCurrency)
}

type displayResponse struct {
	CashBalance  string `json:"cash_balance"`
	BankBalance  string `json:"bank_balance"`
	TotalBalance string `json:"total_balance"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	TodaysNet    string `json:"todays_net"`
}

type summaryResponse struct {
	Currency     string          `json:"currency"`
	StartingCash decimal.Decimal `json:"starting_cash"`
	StartingBank decimal.Decimal `json:"starting_bank"`
	CashActivity decimal.Decimal `json:"cash_activity"`
	BankActivity decimal.Decimal `json:"bank_activity"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	CashBalance  decimal.Decimal `json:"cash_balance"`
	BankBalance  decimal.Decimal `json:"bank_balance"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	TodaysNet    decimal.Decimal `json:"todays_net"`
	CashShare    int             `json:"cash_share"`
	BankShare    int             `json:"bank_share"`
	Entries      int             `json:"entries"`
	IncomeCount  int             `json:"income_count"`
	ExpenseCount int             `json:"expense_count"`
	Formatted    displayResponse `json:"formatted"`
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	var (
		currency = h.settings.Currency()
		start    = h.settings.StartingBalances()
		s        = ledger.Derive(h.txs.All(), start, h.now())
		display  = s.Format(h.formatter, currency)
	)

	render.JSON(w, http.StatusOK, summaryResponse{
		Currency:     currency,
		StartingCash: start.Cash,
		StartingBank: start.Bank,
		CashActivity: s.CashActivity,
		BankActivity: s.BankActivity,
		Income:       s.Income,
		Expense:      s.Expense,
		CashBalance:  s.CashBalance,
		BankBalance:  s.BankBalance,
		TotalBalance: s.TotalBalance,
		TodaysNet:    s.TodaysNet,
		CashShare:    s.CashShare,
		BankShare:    s.BankShare,
		Entries:      s.Entries,
		IncomeCount:  s.IncomeCount,
		ExpenseCount: s.ExpenseCount,
		Formatted: displayResponse{
			CashBalance:  display.CashBalance,
			BankBalance:  display.BankBalance,
			TotalBalance: display.TotalBalance,
			Income:       display.Income,
			Expense:      display.Expense,
			TodaysNet:    display.TodaysNet,
		},
	})
}

type balancesRequest struct {
	Cash json.Number `json:"cash"`
	Bank json.Number `json:"bank"`
}

func (h *Handler) setBalances(w http.ResponseWriter, r *http.Request) {
	var req balancesRequest
	if !render.Decode(w, r, &req) {
		return
	}

	balances, err := ledger.ParseStartingBalances(req.Cash.String(), req.Bank.String())
	if err != nil {
		render.Fail(w, err, ledger.ErrInvalidBalance)
		return
	}

	warnOnSave(h.settings.SetStartingBalances(r.Context(), balances))

	h.summary(w, r)
}

type currencyRequest struct {
	Currency string `json:"currency"`
}

func (h *Handler) setCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if !render.Decode(w, r, &req) {
		return
	}

	err := h.settings.SetCurrency(r.Context(), req.Currency)
	if errors.Is(err, state.ErrInvalidCurrency) {
		render.Fail(w, err, state.ErrInvalidCurrency)
		return
	}

	warnOnSave(err)

	h.summary(w, r)
}

// warnOnSave logs a failed write-through. The in-memory change has already
// been applied.
func warnOnSave(err error) {
	if err != nil {
		slog.Warn("failed to persist state", "error", err)
	}
}

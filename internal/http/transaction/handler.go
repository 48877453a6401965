package transaction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

var validationErrors = []error{
	transaction.ErrMissingDescription,
	transaction.ErrInvalidAmount,
	transaction.ErrInvalidType,
	transaction.ErrInvalidAccount,
}

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Description string              `json:"description"`
	Amount      json.Number         `json:"amount"`
	Type        transaction.Type    `json:"type"`
	Account     transaction.Account `json:"account"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !render.Decode(w, r, &req) {
		return
	}

	tx, err := h.svc.Add(r.Context(), transaction.Form{
		Description: req.Description,
		Amount:      req.Amount.String(),
		Type:        req.Type,
		Account:     req.Account,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		render.Fail(w, err, validationErrors...)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(tx))
}

// list returns transactions newest first, optionally narrowed by the
// account, type, start_date and end_date query parameters.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		account   = transaction.Account(q.Get("account"))
		typ       = transaction.Type(q.Get("type"))
		startDate = q.Get("start_date")
		endDate   = q.Get("end_date")
	)

	txs := make([]*transaction.Transaction, 0)

	for tx := range h.svc.ListSorted() {
		if account != "" && tx.Account != account {
			continue
		}

		if typ != "" && tx.Type != typ {
			continue
		}

		if startDate != "" && tx.Date < startDate {
			continue
		}

		if endDate != "" && tx.Date > endDate {
			continue
		}

		txs = append(txs, tx)
	}

	render.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "transaction not found")
			return
		}

		render.Fail(w, err)

		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		render.Fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/export"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
	r.Post("/csv", h.csv)
}

type exportRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type transactionResponse struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Amount      string              `json:"amount"`
	Type        transaction.Type    `json:"type"`
	Account     transaction.Account `json:"account"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
}

type exportMetadataResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Statement    string                `json:"statement"`
}

func toTransactionResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		Type:        tx.Type,
		Account:     tx.Account,
		Date:        tx.Date,
		Time:        tx.Time,
	}
}

// selected decodes the request filter and returns the matching transactions.
// It answers the request itself when that fails.
func (h *Handler) selected(w http.ResponseWriter, r *http.Request) ([]*transaction.Transaction, bool) {
	var req exportRequest
	if r.ContentLength != 0 && !render.Decode(w, r, &req) {
		return nil, false
	}

	txs, err := h.svc.Export(export.Filter{StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		render.Fail(w, err, export.ErrInvalidDate)
		return nil, false
	}

	return txs, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.selected(w, r)
	if !ok {
		return
	}

	txResponses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		txResponses = append(txResponses, toTransactionResponse(tx))
	}

	render.JSON(w, http.StatusOK, exportMetadataResponse{
		Transactions: txResponses,
		Statement:    h.svc.Statement(txs),
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.selected(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteArchive(&buf, txs); err != nil {
		slog.Error("failed to create zip", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.selected(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", time.Now().Format("20060102")))

	if err := h.svc.WriteCSV(w, txs); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

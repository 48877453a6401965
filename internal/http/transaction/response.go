package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashtrack/internal/transaction"
)

type transactionResponse struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	Type        transaction.Type    `json:"type"`
	Account     transaction.Account `json:"account"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
	Timestamp   int64               `json:"timestamp"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Account:     tx.Account,
		Date:        tx.Date,
		Time:        tx.Time,
		Timestamp:   tx.EffectiveTimestamp(),
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

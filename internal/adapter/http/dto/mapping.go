package dto

import (
	"time"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
)

// ToAccountResponse renders an account with its balance at the given scale.
func ToAccountResponse(a *domain.Account, scale int32) AccountResponse {
	return AccountResponse{
		ID:            a.ID.String(),
		FullName:      a.FullName,
		Username:      a.Username,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance.StringFixed(scale),
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToTransactionResponse(t *domain.Transaction, scale int32) TransactionResponse {
	resp := TransactionResponse{
		ID:        t.ID,
		Kind:      string(t.Kind),
		Amount:    t.Amount.StringFixed(scale),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.CounterpartyID != nil {
		s := t.CounterpartyID.String()
		resp.CounterpartyID = &s
	}
	return resp
}

func ToTransactionListResponse(txns []domain.Transaction, scale int32) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, ToTransactionResponse(&txns[i], scale))
	}
	return TransactionListResponse{Transactions: items, Total: len(items)}
}

func ToTransferResponse(r *ports.TransferResult, scale int32) TransferResponse {
	return TransferResponse{
		Balance:                r.SenderBalance.StringFixed(scale),
		RecipientName:          r.RecipientName,
		RecipientAccountNumber: r.RecipientAccountNumber,
		Debit:                  ToTransactionResponse(&r.Debit, scale),
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a ledger entry. Amounts are always
// positive; the kind carries the sign.
type TransactionKind string

const (
	TransactionKindDeposit     TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal  TransactionKind = "WITHDRAWAL"
	TransactionKindTransferOut TransactionKind = "TRANSFER_OUT"
	TransactionKindTransferIn  TransactionKind = "TRANSFER_IN"
)

// IsCredit returns true if the entry increased the owner's balance.
func (k TransactionKind) IsCredit() bool {
	return k == TransactionKindDeposit || k == TransactionKindTransferIn
}

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindDeposit, TransactionKindWithdrawal,
		TransactionKindTransferOut, TransactionKindTransferIn:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID             int64           `json:"id"` // Store-assigned, increases with insertion order
	AccountID      uuid.UUID       `json:"account_id"`
	Kind           TransactionKind `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID *uuid.UUID      `json:"counterparty_id,omitempty"` // Other side of a transfer
	CreatedAt      time.Time       `json:"created_at"`
}

// SignedAmount returns the amount with the sign implied by the kind.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

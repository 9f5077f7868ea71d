package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a customer's bank account. Balance is never negative.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	FullName      string          `json:"full_name"`
	Username      string          `json:"username"`
	Credential    string          `json:"-"` // Argon2id verifier, never expose
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CanCover reports whether the balance is at least amount.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// AccountNumberLength is the number of digits of a generated account number.
const AccountNumberLength = 10

// MaxBalance is the largest value a NUMERIC(18,2) balance column holds.
var MaxBalance = decimal.RequireFromString("9999999999999999.99")

// MaxAmountExponent bounds the decimal exponent of an accepted amount.
// Values outside it are rejected before any arithmetic touches them.
const MaxAmountExponent = 32

// AmountExponentInRange reports whether amount's exponent lies within
// ±MaxAmountExponent.
func AmountExponentInRange(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	return exp >= -MaxAmountExponent && exp <= MaxAmountExponent
}

package dto

// Amounts travel as decimal strings ("1500.00") so no precision is lost
// in JSON number handling.

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required" sanitize:"-"`
	InitialDeposit string `json:"initial_deposit" binding:"required,decimal_amount"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// LoginResponse carries the bearer token of a new session.
type LoginResponse struct {
	Token     string `json:"token"`
	Expiry    int64  `json:"expiry"` // Unix timestamp
	SessionID string `json:"session_id"`
}

// AmountRequest is the request body for deposit and withdraw.
type AmountRequest struct {
	Amount string `json:"amount" binding:"required,decimal_amount"`
}

// TransferRequest is the request body for a transfer.
type TransferRequest struct {
	RecipientAccountNumber string `json:"recipient_account_number" binding:"required,safe_id,max=32"`
	Amount                 string `json:"amount" binding:"required,decimal_amount"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Username      string `json:"username"`
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
	CreatedAt     string `json:"created_at"`
}

// BalanceResponse is the response for a balance inquiry.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// TransactionResponse is one ledger entry.
type TransactionResponse struct {
	ID             int64   `json:"id"`
	Kind           string  `json:"kind"`
	Amount         string  `json:"amount"`
	CounterpartyID *string `json:"counterparty_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// TransactionListResponse wraps the transaction history, oldest first.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// TransferResponse is the response for a completed transfer.
type TransferResponse struct {
	Balance                string              `json:"balance"`
	RecipientName          string              `json:"recipient_name"`
	RecipientAccountNumber string              `json:"recipient_account_number"`
	Debit                  TransactionResponse `json:"debit"`
}

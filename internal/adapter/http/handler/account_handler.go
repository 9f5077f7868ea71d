package handler

import (
	"context"

	"simple-bank-ledger/internal/adapter/http/dto"
	"simple-bank-ledger/internal/adapter/http/middleware"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"
	"simple-bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountHandler exposes the ledger operations of the authenticated account.
type AccountHandler struct {
	ledger ports.LedgerService
	scale  int32
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger ports.LedgerService, scale int32) *AccountHandler {
	return &AccountHandler{ledger: ledger, scale: scale}
}

// Me handles GET /api/v1/accounts/me.
func (h *AccountHandler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.ledger.AccountDetails(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponse(account, h.scale))
}

// Balance handles GET /api/v1/accounts/me/balance.
func (h *AccountHandler) Balance(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{Balance: balance.StringFixed(h.scale)})
}

// Transactions handles GET /api/v1/accounts/me/transactions.
func (h *AccountHandler) Transactions(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txns, err := h.ledger.History(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToTransactionListResponse(txns, h.scale))
}

// Deposit handles POST /api/v1/accounts/me/deposit.
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.post(c, h.ledger.Deposit)
}

// Withdraw handles POST /api/v1/accounts/me/withdraw.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.post(c, h.ledger.Withdraw)
}

type postFunc func(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

func (h *AccountHandler) post(c *gin.Context, op postFunc) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	amount, err := dto.ParseAmount("amount", req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := op(c.Request.Context(), accountID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{Balance: balance.StringFixed(h.scale)})
}

// Transfer handles POST /api/v1/accounts/me/transfer.
func (h *AccountHandler) Transfer(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := dto.ParseAmount("amount", req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.ledger.Transfer(c.Request.Context(), ports.TransferRequest{
		SenderID:               accountID,
		RecipientAccountNumber: req.RecipientAccountNumber,
		Amount:                 amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToTransferResponse(result, h.scale))
}

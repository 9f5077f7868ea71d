package service

import (
	"bytes"
	"context"
	"time"

	"simple-bank-ledger/config"
	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. Every balance change
// and its ledger entry commit together or not at all.
type LedgerServiceImpl struct {
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	transactor ports.DBTransactor
	cfg        config.LedgerConfig
	maxAmount  decimal.Decimal
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accounts ports.AccountRepository,
	txns ports.TransactionRepository,
	transactor ports.DBTransactor,
	cfg config.LedgerConfig,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accounts:   accounts,
		txns:       txns,
		transactor: transactor,
		cfg:        cfg,
		maxAmount:  cfg.MaxAmountValue(),
		log:        log,
	}
}

// Deposit credits amount and records a DEPOSIT entry.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.post(ctx, accountID, amount, domain.TransactionKindDeposit)
}

// Withdraw debits amount and records a WITHDRAWAL entry. It fails with
// LED_001 rather than overdraw.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.post(ctx, accountID, amount, domain.TransactionKindWithdrawal)
}

func (s *LedgerServiceImpl) post(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind domain.TransactionKind) (decimal.Decimal, error) {
	if err := s.validateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	entry := &domain.Transaction{AccountID: accountID, Kind: kind, Amount: amount}
	delta := entry.SignedAmount()

	var balance decimal.Decimal
	err := s.runInTx(ctx, string(kind), func(tx pgx.Tx) error {
		b, err := s.accounts.AdjustBalance(ctx, tx, accountID, delta)
		if err != nil {
			return err
		}
		if err := s.txns.Append(ctx, tx, entry); err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.log.Info().
		Str("account_id", accountID.String()).
		Str("kind", string(kind)).
		Str("amount", amount.String()).
		Int64("transaction_id", entry.ID).
		Msg("ledger entry posted")

	return balance, nil
}

// Transfer moves amount from the sender to the account with the given
// number. Both rows are locked in ascending ID order so overlapping
// transfers cannot deadlock.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if err := s.validateAmount(req.Amount); err != nil {
		return nil, err
	}

	recipient, err := s.accounts.GetByAccountNumber(ctx, req.RecipientAccountNumber)
	if err != nil {
		return nil, classify("find recipient", err)
	}
	if recipient == nil {
		return nil, apperror.ErrRecipientNotFound()
	}
	if recipient.ID == req.SenderID {
		return nil, apperror.ErrSelfTransfer()
	}

	var result *ports.TransferResult
	err = s.runInTx(ctx, "transfer", func(tx pgx.Tx) error {
		first, second := req.SenderID, recipient.ID
		if bytes.Compare(first[:], second[:]) > 0 {
			first, second = second, first
		}
		for _, id := range []uuid.UUID{first, second} {
			a, err := s.accounts.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			if a == nil {
				if id == recipient.ID {
					return apperror.ErrRecipientNotFound()
				}
				return apperror.ErrAccountNotFound()
			}
		}

		senderBalance, err := s.accounts.AdjustBalance(ctx, tx, req.SenderID, req.Amount.Neg())
		if err != nil {
			return err
		}
		if _, err := s.accounts.AdjustBalance(ctx, tx, recipient.ID, req.Amount); err != nil {
			return err
		}

		senderID, recipientID := req.SenderID, recipient.ID
		debit := domain.Transaction{
			AccountID:      senderID,
			Kind:           domain.TransactionKindTransferOut,
			Amount:         req.Amount,
			CounterpartyID: &recipientID,
		}
		credit := domain.Transaction{
			AccountID:      recipientID,
			Kind:           domain.TransactionKindTransferIn,
			Amount:         req.Amount,
			CounterpartyID: &senderID,
		}
		if err := s.txns.Append(ctx, tx, &debit); err != nil {
			return err
		}
		if err := s.txns.Append(ctx, tx, &credit); err != nil {
			return err
		}

		result = &ports.TransferResult{
			SenderBalance:          senderBalance,
			RecipientName:          recipient.FullName,
			RecipientAccountNumber: recipient.AccountNumber,
			Debit:                  debit,
			Credit:                 credit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("sender_id", req.SenderID.String()).
		Str("recipient_id", recipient.ID.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")

	return result, nil
}

// Balance returns the committed balance.
func (s *LedgerServiceImpl) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	balance, err := s.accounts.GetBalance(ctx, accountID)
	if err != nil {
		return decimal.Zero, classify("get balance", err)
	}
	return balance, nil
}

// History returns the account's entries, oldest first.
func (s *LedgerServiceImpl) History(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.txns.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, classify("list transactions", err)
	}
	return txns, nil
}

func (s *LedgerServiceImpl) AccountDetails(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, classify("get account", err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

func (s *LedgerServiceImpl) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if !domain.AmountExponentInRange(amount) {
		if amount.Exponent() > 0 {
			return apperror.ErrAmountTooLarge(s.maxAmount.String())
		}
		return apperror.ErrAmountPrecision(s.cfg.AmountScale)
	}
	if amount.GreaterThan(s.maxAmount) {
		return apperror.ErrAmountTooLarge(s.maxAmount.String())
	}
	if !amount.Equal(amount.Truncate(s.cfg.AmountScale)) {
		return apperror.ErrAmountPrecision(s.cfg.AmountScale)
	}
	return nil
}

// runInTx runs fn in a transaction, retrying the whole unit on SYS_002 up
// to cfg.MaxRetries times.
func (s *LedgerServiceImpl) runInTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := s.inTx(ctx, op, fn)
		if err == nil || !apperror.Is(err, apperror.CodeTransientConflict) || attempt >= s.cfg.MaxRetries {
			return err
		}

		backoff := s.cfg.RetryBackoff * time.Duration(attempt+1)
		s.log.Warn().Err(err).
			Str("op", op).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("transient conflict, retrying")

		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
	}
}

func (s *LedgerServiceImpl) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return classify(op+": begin tx", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return classify(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(op+": commit tx", err)
	}
	return nil
}

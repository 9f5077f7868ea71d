package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"simple-bank-ledger/config"
	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/internal/core/ports/mocks"
	"simple-bank-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc        *LedgerServiceImpl
	accounts   *mocks.MockAccountRepository
	txns       *mocks.MockTransactionRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func testLedgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
		LockTimeout:  time.Second,
		AmountScale:  2,
		MaxAmount:    config.DefaultMaxAmount,
	}
}

func setupLedgerService(t *testing.T, cfg config.LedgerConfig) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		accounts:   mocks.NewMockAccountRepository(ctrl),
		txns:       mocks.NewMockTransactionRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewLedgerService(d.accounts, d.txns, d.transactor, cfg, zerolog.Nop())
	return d
}

// ==================== Deposit / Withdraw ====================

func TestLedgerService_Deposit_Success(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, decEq("500")).Return(dec("1500"), nil)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, txn *domain.Transaction) error {
			assert.Equal(t, accountID, txn.AccountID)
			assert.Equal(t, domain.TransactionKindDeposit, txn.Kind)
			assert.True(t, txn.Amount.Equal(dec("500")))
			assert.Nil(t, txn.CounterpartyID)
			txn.ID = 1
			return nil
		})

	balance, err := d.svc.Deposit(ctx, accountID, dec("500"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("1500")))
}

func TestLedgerService_Withdraw_Success(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, decEq("-250.50")).Return(dec("749.50"), nil)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionKindWithdrawal, txn.Kind)
			assert.True(t, txn.Amount.Equal(dec("250.50")), "amounts are stored positive")
			return nil
		})

	balance, err := d.svc.Withdraw(ctx, accountID, dec("250.50"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("749.50")))
}

func TestLedgerService_InvalidAmount(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()

	for _, amount := range []string{"0", "-1", "-0.01"} {
		_, err := d.svc.Deposit(ctx, uuid.New(), dec(amount))
		assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount), amount)

		_, err = d.svc.Withdraw(ctx, uuid.New(), dec(amount))
		assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount), amount)

		_, err = d.svc.Transfer(ctx, ports.TransferRequest{SenderID: uuid.New(), RecipientAccountNumber: "1", Amount: dec(amount)})
		assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount), amount)
	}
}

func TestLedgerService_AmountPrecision(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())

	_, err := d.svc.Deposit(context.Background(), uuid.New(), dec("10.005"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount))
	assert.Contains(t, err.Error(), "2 decimal places")
}

func TestLedgerService_AmountAboveMaximum(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()

	for _, amount := range []string{"10000000000000000", "1e30", "1e50000000"} {
		_, err := d.svc.Deposit(ctx, uuid.New(), dec(amount))
		require.Error(t, err, amount)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount), amount)
		assert.Contains(t, err.Error(), "9999999999999999.99", amount)

		_, err = d.svc.Transfer(ctx, ports.TransferRequest{SenderID: uuid.New(), RecipientAccountNumber: "1", Amount: dec(amount)})
		assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount), amount)
	}
}

func TestLedgerService_ConfiguredMaximum(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.MaxAmount = "500"
	d := setupLedgerService(t, cfg)
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}

	_, err := d.svc.Withdraw(ctx, accountID, dec("500.01"))
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount))

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, decEq("500")).Return(dec("500"), nil)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)

	_, err = d.svc.Deposit(ctx, accountID, dec("500"))
	assert.NoError(t, err)
}

func TestLedgerService_TinyExponentIsPrecisionError(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())

	_, err := d.svc.Deposit(context.Background(), uuid.New(), dec("1e-50000000"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount))
	assert.Contains(t, err.Error(), "2 decimal places")
}

func TestLedgerService_AmountTrailingZerosAccepted(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, decEq("10.5")).Return(dec("10.5"), nil)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)

	_, err := d.svc.Deposit(ctx, accountID, dec("10.5000"))
	assert.NoError(t, err)
}

func TestLedgerService_Withdraw_InsufficientFunds(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, decEq("-2000")).Return(decimal.Zero, apperror.ErrInsufficientFunds())
	// No Append expected: the ledger is untouched.

	_, err := d.svc.Withdraw(ctx, accountID, dec("2000"))
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientFunds))
}

func TestLedgerService_AppendFailure_IsInternal(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, gomock.Any()).Return(dec("1"), nil)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).Return(errors.New("insert transaction: disk full"))

	_, err := d.svc.Deposit(ctx, accountID, dec("1"))
	assert.True(t, apperror.Is(err, apperror.CodeInternal))
}

func TestLedgerService_BeginFailure(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(nil, apperror.ErrStoreUnavailable(errors.New("connection refused")))

	_, err := d.svc.Deposit(ctx, uuid.New(), dec("1"))
	assert.True(t, apperror.Is(err, apperror.CodeStoreUnavailable))
}

func TestLedgerService_CommitFailure(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &commitFailTx{err: errors.New("connection reset")}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, gomock.Any()).Return(dec("1"), nil)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)

	_, err := d.svc.Deposit(ctx, accountID, dec("1"))
	assert.True(t, apperror.Is(err, apperror.CodeInternal))
}

// ==================== Retry ====================

func TestLedgerService_RetriesTransientConflict(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()
	tx := &mockTx{}
	conflict := apperror.ErrTransientConflict(errors.New("40P01"))

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil).Times(3)
	gomock.InOrder(
		d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, gomock.Any()).Return(decimal.Zero, conflict),
		d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, gomock.Any()).Return(decimal.Zero, conflict),
		d.accounts.EXPECT().AdjustBalance(ctx, tx, accountID, gomock.Any()).Return(dec("10"), nil),
	)
	d.txns.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)

	balance, err := d.svc.Deposit(ctx, accountID, dec("10"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10")))
}

func TestLedgerService_RetriesExhausted(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.MaxRetries = 1
	d := setupLedgerService(t, cfg)
	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil).Times(2)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, gomock.Any(), gomock.Any()).
		Return(decimal.Zero, apperror.ErrTransientConflict(errors.New("55P03"))).Times(2)

	_, err := d.svc.Withdraw(ctx, uuid.New(), dec("10"))
	assert.True(t, apperror.Is(err, apperror.CodeTransientConflict))
}

func TestLedgerService_NoRetryForBusinessErrors(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil).Times(1)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, gomock.Any(), gomock.Any()).
		Return(decimal.Zero, apperror.ErrAccountNotFound()).Times(1)

	_, err := d.svc.Deposit(ctx, uuid.New(), dec("10"))
	assert.True(t, apperror.Is(err, apperror.CodeAccountNotFound))
}

// ==================== Transfer ====================

func TestLedgerService_Transfer_Success(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	senderID := uuid.New()
	recipient := &domain.Account{ID: uuid.New(), FullName: "Bob Jones", AccountNumber: "2000000002", Balance: dec("1000")}
	tx := &mockTx{}

	first, second := senderID, recipient.ID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}

	d.accounts.EXPECT().GetByAccountNumber(ctx, "2000000002").Return(recipient, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	gomock.InOrder(
		d.accounts.EXPECT().GetByIDForUpdate(ctx, tx, first).Return(&domain.Account{ID: first}, nil),
		d.accounts.EXPECT().GetByIDForUpdate(ctx, tx, second).Return(&domain.Account{ID: second}, nil),
		d.accounts.EXPECT().AdjustBalance(ctx, tx, senderID, decEq("-700")).Return(dec("800"), nil),
		d.accounts.EXPECT().AdjustBalance(ctx, tx, recipient.ID, decEq("700")).Return(dec("1700"), nil),
		d.txns.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, txn *domain.Transaction) error {
				txn.ID = 10
				return nil
			}),
		d.txns.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, txn *domain.Transaction) error {
				txn.ID = 11
				return nil
			}),
	)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		SenderID:               senderID,
		RecipientAccountNumber: "2000000002",
		Amount:                 dec("700"),
	})
	require.NoError(t, err)
	assert.True(t, result.SenderBalance.Equal(dec("800")))
	assert.Equal(t, "Bob Jones", result.RecipientName)
	assert.Equal(t, "2000000002", result.RecipientAccountNumber)

	assert.Equal(t, int64(10), result.Debit.ID)
	assert.Equal(t, domain.TransactionKindTransferOut, result.Debit.Kind)
	assert.Equal(t, senderID, result.Debit.AccountID)
	require.NotNil(t, result.Debit.CounterpartyID)
	assert.Equal(t, recipient.ID, *result.Debit.CounterpartyID)

	assert.Equal(t, int64(11), result.Credit.ID)
	assert.Equal(t, domain.TransactionKindTransferIn, result.Credit.Kind)
	assert.Equal(t, recipient.ID, result.Credit.AccountID)
	require.NotNil(t, result.Credit.CounterpartyID)
	assert.Equal(t, senderID, *result.Credit.CounterpartyID)
}

func TestLedgerService_Transfer_RecipientNotFound(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()

	d.accounts.EXPECT().GetByAccountNumber(ctx, "9999999999").Return(nil, nil)

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{SenderID: uuid.New(), RecipientAccountNumber: "9999999999", Amount: dec("1")})
	assert.True(t, apperror.Is(err, apperror.CodeRecipientNotFound))
}

func TestLedgerService_Transfer_Self(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	senderID := uuid.New()

	d.accounts.EXPECT().GetByAccountNumber(ctx, "1000000001").Return(&domain.Account{ID: senderID}, nil)

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{SenderID: senderID, RecipientAccountNumber: "1000000001", Amount: dec("1")})
	assert.True(t, apperror.Is(err, apperror.CodeSelfTransfer))
}

func TestLedgerService_Transfer_InsufficientFunds(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	senderID := uuid.New()
	recipient := &domain.Account{ID: uuid.New(), AccountNumber: "2000000002"}
	tx := &mockTx{}

	d.accounts.EXPECT().GetByAccountNumber(ctx, "2000000002").Return(recipient, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().GetByIDForUpdate(ctx, tx, gomock.Any()).Return(&domain.Account{}, nil).Times(2)
	d.accounts.EXPECT().AdjustBalance(ctx, tx, senderID, decEq("-5000")).Return(decimal.Zero, apperror.ErrInsufficientFunds())

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{SenderID: senderID, RecipientAccountNumber: "2000000002", Amount: dec("5000")})
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientFunds))
}

func TestLedgerService_Transfer_SenderMissing(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	senderID := uuid.New()
	recipient := &domain.Account{ID: uuid.New(), AccountNumber: "2000000002"}
	tx := &mockTx{}

	d.accounts.EXPECT().GetByAccountNumber(ctx, "2000000002").Return(recipient, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accounts.EXPECT().GetByIDForUpdate(ctx, tx, senderID).Return(nil, nil)
	d.accounts.EXPECT().GetByIDForUpdate(ctx, tx, recipient.ID).Return(recipient, nil).AnyTimes()

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{SenderID: senderID, RecipientAccountNumber: "2000000002", Amount: dec("1")})
	assert.True(t, apperror.Is(err, apperror.CodeAccountNotFound))
}

// ==================== Reads ====================

func TestLedgerService_Balance(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()

	d.accounts.EXPECT().GetBalance(ctx, accountID).Return(dec("42.10"), nil)
	balance, err := d.svc.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("42.1")))

	d.accounts.EXPECT().GetBalance(ctx, accountID).Return(decimal.Zero, errors.New("boom"))
	_, err = d.svc.Balance(ctx, accountID)
	assert.True(t, apperror.Is(err, apperror.CodeInternal))
}

func TestLedgerService_History(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	accountID := uuid.New()

	d.txns.EXPECT().ListByAccount(ctx, accountID).Return([]domain.Transaction{}, nil)
	history, err := d.svc.History(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLedgerService_AccountDetails(t *testing.T) {
	d := setupLedgerService(t, testLedgerConfig())
	ctx := context.Background()
	account := &domain.Account{ID: uuid.New(), FullName: "Alice Smith", AccountNumber: "1000000001", Balance: dec("1000")}

	d.accounts.EXPECT().GetByID(ctx, account.ID).Return(account, nil)
	got, err := d.svc.AccountDetails(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.FullName)

	missing := uuid.New()
	d.accounts.EXPECT().GetByID(ctx, missing).Return(nil, nil)
	_, err = d.svc.AccountDetails(ctx, missing)
	assert.True(t, apperror.Is(err, apperror.CodeAccountNotFound))
}

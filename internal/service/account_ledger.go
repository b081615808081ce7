package service

import (
	"context"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// AccountLedger moves money between two accounts. It must be bound to
// repositories of an open transaction: both balance writes commit or
// neither does.
type AccountLedger struct {
	accounts repository.AccountRepository
}

func NewAccountLedger(accounts repository.AccountRepository) *AccountLedger {
	return &AccountLedger{accounts: accounts}
}

// Transfer debits payerID and credits payeeID by amount.
func (l *AccountLedger) Transfer(ctx context.Context, payerID, payeeID int32, amount decimal.Decimal) error {
	amount = domain.RoundMoney(amount)
	if !amount.IsPositive() {
		return domain.NewError(domain.CodeValidation, "Transfer amount must be positive")
	}
	if payerID == payeeID {
		return domain.NewError(domain.CodeValidation, "Payer and payee must differ")
	}

	if err := l.accounts.LockAccounts(ctx, payerID, payeeID); err != nil {
		return err
	}

	payerBalance, err := l.balance(ctx, payerID)
	if err != nil {
		return err
	}
	if payerBalance.LessThan(amount) {
		return domain.NewError(domain.CodeInsufficientFunds, "Insufficient balance")
	}
	payeeBalance, err := l.balance(ctx, payeeID)
	if err != nil {
		return err
	}

	if err := l.accounts.SetBalance(ctx, payerID, payerBalance.Sub(amount)); err != nil {
		return err
	}
	if err := l.accounts.SetBalance(ctx, payeeID, payeeBalance.Add(amount)); err != nil {
		return err
	}

	logger.DebugContext(ctx, "Funds transferred",
		"payer_id", payerID, "payee_id", payeeID, "amount", domain.FormatMoney(amount))
	return nil
}

// balance reads a balance, treating a missing or corrupt value as zero.
func (l *AccountLedger) balance(ctx context.Context, userID int32) (decimal.Decimal, error) {
	b, ok, err := l.accounts.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		logger.WarnContext(ctx, "Stored balance unreadable, using zero", "user_id", userID)
		return decimal.Zero, nil
	}
	return b, nil
}

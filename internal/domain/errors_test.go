package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"krishimitra-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := domain.NewError(domain.CodeInsufficientStock, "Only %s kg available", "5")

	assert.Equal(t, "Only 5 kg available", err.Error())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrInsufficientFunds)

	wrapped := fmt.Errorf("settle: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrInsufficientStock)
	assert.Equal(t, domain.CodeInsufficientStock, domain.CodeOf(wrapped))
}

func TestStorageError(t *testing.T) {
	t.Run("WrapsInfrastructureErrors", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := domain.StorageError("lock accounts", cause)

		assert.ErrorIs(t, err, domain.ErrStorageFailure)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "lock accounts failed: connection reset", err.Error())
	})

	t.Run("KeepsDomainErrors", func(t *testing.T) {
		err := domain.StorageError("get product", domain.ErrNotFound)
		assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, domain.StorageError("noop", nil))
	})
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, domain.CodeStorageFailure, domain.CodeOf(errors.New("boom")))
}

package service_test

import (
	"context"
	"testing"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountLedger_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundsToMoneyScale", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		accounts.On("LockAccounts", ctx, []int32{4, 3}).Return(nil)
		accounts.On("GetBalance", ctx, int32(4)).Return(decimal.NewFromInt(10), true, nil)
		accounts.On("GetBalance", ctx, int32(3)).Return(decimal.NewFromInt(1), true, nil)
		accounts.On("SetBalance", ctx, int32(4), money("6.67")).Return(nil)
		accounts.On("SetBalance", ctx, int32(3), money("4.33")).Return(nil)

		err := service.NewAccountLedger(accounts).Transfer(ctx, 4, 3, decimal.RequireFromString("3.333"))
		require.NoError(t, err)
		accounts.AssertExpectations(t)
	})

	t.Run("ExactBalance", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		accounts.On("LockAccounts", ctx, []int32{1, 2}).Return(nil)
		accounts.On("GetBalance", ctx, int32(1)).Return(decimal.NewFromInt(10), true, nil)
		accounts.On("GetBalance", ctx, int32(2)).Return(decimal.Zero, false, nil)
		accounts.On("SetBalance", ctx, int32(1), money("0")).Return(nil)
		accounts.On("SetBalance", ctx, int32(2), money("10")).Return(nil)

		err := service.NewAccountLedger(accounts).Transfer(ctx, 1, 2, decimal.NewFromInt(10))
		require.NoError(t, err)
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		err := service.NewAccountLedger(accounts).Transfer(ctx, 1, 2, decimal.RequireFromString("0.001"))
		assert.ErrorIs(t, err, domain.ErrValidation)
		accounts.AssertNotCalled(t, "LockAccounts", mock.Anything, mock.Anything)
	})

	t.Run("RejectsSelfTransfer", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		err := service.NewAccountLedger(accounts).Transfer(ctx, 1, 1, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("MissingAccount", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		accounts.On("LockAccounts", ctx, []int32{1, 2}).Return(domain.NewError(domain.CodeNotFound, "Account not found"))

		err := service.NewAccountLedger(accounts).Transfer(ctx, 1, 2, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		accounts.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckReservable(t *testing.T) {
	p := &domain.Product{
		AvailableQuantity: decimal.NewFromInt(5),
		IsAvailable:       true,
	}

	assert.NoError(t, service.CheckReservable(p, decimal.NewFromInt(5)))
	assert.ErrorIs(t, service.CheckReservable(p, decimal.Zero), domain.ErrValidation)
	assert.ErrorIs(t, service.CheckReservable(p, decimal.RequireFromString("5.01")), domain.ErrInsufficientStock)

	p.IsAvailable = false
	assert.ErrorIs(t, service.CheckReservable(p, decimal.NewFromInt(1)), domain.ErrUnavailable)
}

func TestAvailabilityManager_Lock(t *testing.T) {
	ctx := context.Background()

	t.Run("AlreadyLeased", func(t *testing.T) {
		listings := new(MockListingRepo)
		rt := &domain.Rentable{ID: 4, Kind: domain.ResourceTypeEquipment, IsAvailable: false}
		listings.On("GetRentable", ctx, domain.ResourceTypeEquipment, int32(4), true).Return(rt, nil)

		err := service.NewAvailabilityManager(listings).Lock(ctx, domain.ResourceTypeEquipment, 4)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		assert.Equal(t, "Equipment not available", err.Error())
		listings.AssertNotCalled(t, "SetRentableAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Release", func(t *testing.T) {
		listings := new(MockListingRepo)
		listings.On("SetRentableAvailability", ctx, domain.ResourceTypeLand, int32(3), true).Return(nil)

		err := service.NewAvailabilityManager(listings).Release(ctx, domain.ResourceTypeLand, 3)
		assert.NoError(t, err)
	})
}

package http_test

import (
	"context"
	"time"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockSettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, req service.SettlementRequest) (*service.SettlementResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettlementResult), args.Error(1)
}

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) ListMyTransactions(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ListMyLeases(ctx context.Context, userID int32) ([]domain.Lease, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lease), args.Error(1)
}

// MockLeaseService
type MockLeaseService struct {
	mock.Mock
}

func (m *MockLeaseService) UpdateLeaseStatus(ctx context.Context, ownerID, leaseID int32, status domain.LeaseStatus) (*domain.Lease, error) {
	args := m.Called(ctx, ownerID, leaseID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}
func (m *MockLeaseService) ReleaseExpiredLeases(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
func (m *MockLeaseService) ListAllLeases(ctx context.Context) ([]domain.Lease, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lease), args.Error(1)
}
func (m *MockLeaseService) DeleteLease(ctx context.Context, leaseID int32) error {
	args := m.Called(ctx, leaseID)
	return args.Error(0)
}

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateProduct(ctx context.Context, ownerID int32, f service.ProductFields) (*domain.Product, error) {
	args := m.Called(ctx, ownerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockListingService) UpdateProduct(ctx context.Context, ownerID, id int32, f service.ProductFields) (*domain.Product, error) {
	args := m.Called(ctx, ownerID, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockListingService) GetProduct(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockListingService) ListProducts(ctx context.Context, f domain.ListingFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockListingService) CreateLand(ctx context.Context, ownerID int32, f service.LandFields) (*domain.Land, error) {
	args := m.Called(ctx, ownerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Land), args.Error(1)
}
func (m *MockListingService) UpdateLand(ctx context.Context, ownerID, id int32, f service.LandFields) (*domain.Land, error) {
	args := m.Called(ctx, ownerID, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Land), args.Error(1)
}
func (m *MockListingService) GetLand(ctx context.Context, id int32) (*domain.Land, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Land), args.Error(1)
}
func (m *MockListingService) ListLands(ctx context.Context, f domain.ListingFilter) ([]domain.Land, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Land), args.Error(1)
}
func (m *MockListingService) CreateEquipment(ctx context.Context, ownerID int32, f service.EquipmentFields) (*domain.Equipment, error) {
	args := m.Called(ctx, ownerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockListingService) UpdateEquipment(ctx context.Context, ownerID, id int32, f service.EquipmentFields) (*domain.Equipment, error) {
	args := m.Called(ctx, ownerID, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockListingService) GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockListingService) ListEquipment(ctx context.Context, f domain.ListingFilter) ([]domain.Equipment, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockListingService) DeleteListing(ctx context.Context, ownerID int32, kind domain.ResourceType, id int32) error {
	args := m.Called(ctx, ownerID, kind, id)
	return args.Error(0)
}

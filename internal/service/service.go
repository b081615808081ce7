package service

import (
	"context"
	"time"

	"krishimitra-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// SettlementRequest is one buy or rent request made by CallerID.
type SettlementRequest struct {
	CallerID        int32
	ResourceType    domain.ResourceType
	ResourceID      int32
	TransactionType domain.TransactionType
	Quantity        decimal.Decimal
	StartDate       string
	EndDate         string
	PaymentMethod   string
}

// SettlementResult carries the records written by a successful settlement.
// Lease is set for rentals, RemainingQuantity for purchases.
type SettlementResult struct {
	Transaction       *domain.Transaction
	Lease             *domain.Lease
	RemainingQuantity *decimal.Decimal
}

type SettlementService interface {
	Settle(ctx context.Context, req SettlementRequest) (*SettlementResult, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, userID int32) (decimal.Decimal, error)
	ListMyTransactions(ctx context.Context, userID int32) ([]domain.Transaction, error)
	ListMyLeases(ctx context.Context, userID int32) ([]domain.Lease, error)
}

type LeaseService interface {
	UpdateLeaseStatus(ctx context.Context, ownerID, leaseID int32, status domain.LeaseStatus) (*domain.Lease, error)
	ReleaseExpiredLeases(ctx context.Context, now time.Time) (int, error)
	ListAllLeases(ctx context.Context) ([]domain.Lease, error)
	DeleteLease(ctx context.Context, leaseID int32) error
}

type ListingService interface {
	CreateProduct(ctx context.Context, ownerID int32, f ProductFields) (*domain.Product, error)
	UpdateProduct(ctx context.Context, ownerID, id int32, f ProductFields) (*domain.Product, error)
	GetProduct(ctx context.Context, id int32) (*domain.Product, error)
	ListProducts(ctx context.Context, f domain.ListingFilter) ([]domain.Product, error)

	CreateLand(ctx context.Context, ownerID int32, f LandFields) (*domain.Land, error)
	UpdateLand(ctx context.Context, ownerID, id int32, f LandFields) (*domain.Land, error)
	GetLand(ctx context.Context, id int32) (*domain.Land, error)
	ListLands(ctx context.Context, f domain.ListingFilter) ([]domain.Land, error)

	CreateEquipment(ctx context.Context, ownerID int32, f EquipmentFields) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, ownerID, id int32, f EquipmentFields) (*domain.Equipment, error)
	GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error)
	ListEquipment(ctx context.Context, f domain.ListingFilter) ([]domain.Equipment, error)

	DeleteListing(ctx context.Context, ownerID int32, kind domain.ResourceType, id int32) error
}

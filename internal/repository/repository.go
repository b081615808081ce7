package repository

import (
	"context"
	"time"

	"krishimitra-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository is the Account Store.
type AccountRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	// LockAccounts takes row locks on the given accounts in ascending id
	// order. It fails with domain.ErrNotFound if any id has no row.
	LockAccounts(ctx context.Context, ids ...int32) error
	// GetBalance returns the stored balance. A NULL or unparsable value is
	// reported as ok=false rather than as an error.
	GetBalance(ctx context.Context, userID int32) (balance decimal.Decimal, ok bool, err error)
	SetBalance(ctx context.Context, userID int32, balance decimal.Decimal) error
}

// ListingRepository is the Inventory Store.
type ListingRepository interface {
	// GetProduct returns the product row; forUpdate locks it until the
	// surrounding transaction ends.
	GetProduct(ctx context.Context, id int32, forUpdate bool) (*domain.Product, error)
	// UpdateProductStock writes quantity, available_quantity and
	// is_available, guarded so stock cannot drop below requested.
	UpdateProductStock(ctx context.Context, p *domain.Product, requested decimal.Decimal) error
	GetRentable(ctx context.Context, kind domain.ResourceType, id int32, forUpdate bool) (*domain.Rentable, error)
	// SetRentableAvailability flips is_available from !available to
	// available. It fails with domain.ErrUnavailable if the flag already
	// had the target value.
	SetRentableAvailability(ctx context.Context, kind domain.ResourceType, id int32, available bool) error

	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	ListProducts(ctx context.Context, f domain.ListingFilter) ([]domain.Product, error)

	CreateLand(ctx context.Context, l *domain.Land) error
	GetLand(ctx context.Context, id int32, forUpdate bool) (*domain.Land, error)
	UpdateLand(ctx context.Context, l *domain.Land) error
	ListLands(ctx context.Context, f domain.ListingFilter) ([]domain.Land, error)

	CreateEquipment(ctx context.Context, e *domain.Equipment) error
	GetEquipment(ctx context.Context, id int32, forUpdate bool) (*domain.Equipment, error)
	UpdateEquipment(ctx context.Context, e *domain.Equipment) error
	ListEquipment(ctx context.Context, f domain.ListingFilter) ([]domain.Equipment, error)

	// DeleteListing removes a product, land or equipment row.
	DeleteListing(ctx context.Context, kind domain.ResourceType, id int32) error
}

// LedgerRepository is the Ledger Store.
type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	ListTransactionsByBuyer(ctx context.Context, buyerID int32) ([]domain.Transaction, error)
	CreateLease(ctx context.Context, lease *domain.Lease) error
	GetLease(ctx context.Context, id int32, forUpdate bool) (*domain.Lease, error)
	UpdateLeaseStatus(ctx context.Context, id int32, status domain.LeaseStatus) error
	ListLeasesByRenter(ctx context.Context, renterID int32) ([]domain.Lease, error)
	ListLeases(ctx context.Context) ([]domain.Lease, error)
	DeleteLease(ctx context.Context, id int32) error
	// HasPendingLease reports whether the land or equipment listing is
	// currently leased out.
	HasPendingLease(ctx context.Context, kind domain.ResourceType, id int32) (bool, error)
	// ListExpiredLeaseIDs returns pending leases whose end date is before now.
	ListExpiredLeaseIDs(ctx context.Context, now time.Time) ([]int32, error)
}

// Repositories groups the stores bound to one database handle.
type Repositories struct {
	Accounts AccountRepository
	Listings ListingRepository
	Ledger   LedgerRepository
}

// Transactor runs fn inside a single database transaction. The
// repositories handed to fn are bound to that transaction; it commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

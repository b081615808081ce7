package service_test

import (
	"context"
	"time"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAccountRepo) LockAccounts(ctx context.Context, ids ...int32) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
func (m *MockAccountRepo) GetBalance(ctx context.Context, userID int32) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}
func (m *MockAccountRepo) SetBalance(ctx context.Context, userID int32, balance decimal.Decimal) error {
	args := m.Called(ctx, userID, balance)
	return args.Error(0)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) GetProduct(ctx context.Context, id int32, forUpdate bool) (*domain.Product, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockListingRepo) UpdateProductStock(ctx context.Context, p *domain.Product, requested decimal.Decimal) error {
	args := m.Called(ctx, p, requested)
	return args.Error(0)
}
func (m *MockListingRepo) GetRentable(ctx context.Context, kind domain.ResourceType, id int32, forUpdate bool) (*domain.Rentable, error) {
	args := m.Called(ctx, kind, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rentable), args.Error(1)
}
func (m *MockListingRepo) SetRentableAvailability(ctx context.Context, kind domain.ResourceType, id int32, available bool) error {
	args := m.Called(ctx, kind, id, available)
	return args.Error(0)
}

func (m *MockListingRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockListingRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockListingRepo) ListProducts(ctx context.Context, f domain.ListingFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockListingRepo) CreateLand(ctx context.Context, l *domain.Land) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockListingRepo) GetLand(ctx context.Context, id int32, forUpdate bool) (*domain.Land, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Land), args.Error(1)
}
func (m *MockListingRepo) UpdateLand(ctx context.Context, l *domain.Land) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockListingRepo) ListLands(ctx context.Context, f domain.ListingFilter) ([]domain.Land, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Land), args.Error(1)
}
func (m *MockListingRepo) CreateEquipment(ctx context.Context, e *domain.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockListingRepo) GetEquipment(ctx context.Context, id int32, forUpdate bool) (*domain.Equipment, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockListingRepo) UpdateEquipment(ctx context.Context, e *domain.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockListingRepo) ListEquipment(ctx context.Context, f domain.ListingFilter) ([]domain.Equipment, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockListingRepo) DeleteListing(ctx context.Context, kind domain.ResourceType, id int32) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) ListTransactionsByBuyer(ctx context.Context, buyerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) CreateLease(ctx context.Context, lease *domain.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}
func (m *MockLedgerRepo) GetLease(ctx context.Context, id int32, forUpdate bool) (*domain.Lease, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}
func (m *MockLedgerRepo) UpdateLeaseStatus(ctx context.Context, id int32, status domain.LeaseStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockLedgerRepo) ListLeasesByRenter(ctx context.Context, renterID int32) ([]domain.Lease, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lease), args.Error(1)
}
func (m *MockLedgerRepo) ListLeases(ctx context.Context) ([]domain.Lease, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lease), args.Error(1)
}
func (m *MockLedgerRepo) DeleteLease(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLedgerRepo) HasPendingLease(ctx context.Context, kind domain.ResourceType, id int32) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerRepo) ListExpiredLeaseIDs(ctx context.Context, now time.Time) ([]int32, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

// fakeTransactor runs fn against the mocks and records whether the
// transaction would have committed.
type fakeTransactor struct {
	repos      repository.Repositories
	begun      int
	committed  int
	rolledBack int
}

func newFakeTransactor(accounts *MockAccountRepo, listings *MockListingRepo, ledger *MockLedgerRepo) *fakeTransactor {
	return &fakeTransactor{repos: repository.Repositories{Accounts: accounts, Listings: listings, Ledger: ledger}}
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	f.begun++
	if err := fn(ctx, f.repos); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

// money matches a decimal argument by value rather than representation.
func money(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

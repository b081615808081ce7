package service

import (
	"context"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// AvailabilityManager tracks whether listings can be acquired. Reads
// lock the listing row for the rest of the surrounding transaction.
type AvailabilityManager struct {
	listings repository.ListingRepository
}

func NewAvailabilityManager(listings repository.ListingRepository) *AvailabilityManager {
	return &AvailabilityManager{listings: listings}
}

// Product loads and locks a product.
func (m *AvailabilityManager) Product(ctx context.Context, id int32) (*domain.Product, error) {
	return m.listings.GetProduct(ctx, id, true)
}

// Rentable loads and locks a land or equipment listing.
func (m *AvailabilityManager) Rentable(ctx context.Context, kind domain.ResourceType, id int32) (*domain.Rentable, error) {
	return m.listings.GetRentable(ctx, kind, id, true)
}

// CheckReservable reports why quantity cannot be taken from p, if it can't.
func CheckReservable(p *domain.Product, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return domain.NewError(domain.CodeValidation, "Invalid quantity")
	}
	if !p.Available() {
		return domain.NewError(domain.CodeUnavailable, "Product not available")
	}
	if quantity.GreaterThan(p.AvailableQuantity) {
		return domain.NewError(domain.CodeInsufficientStock, "Only %s kg available", p.AvailableQuantity.String())
	}
	return nil
}

// Reserve takes quantity out of a product's stock and returns the
// updated product. Stock that reaches zero closes the listing.
func (m *AvailabilityManager) Reserve(ctx context.Context, productID int32, quantity decimal.Decimal) (*domain.Product, error) {
	p, err := m.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := CheckReservable(p, quantity); err != nil {
		return nil, err
	}

	updated := *p
	updated.Quantity = p.Quantity.Sub(quantity)
	if updated.Quantity.IsNegative() {
		updated.Quantity = decimal.Zero
	}
	updated.AvailableQuantity = p.AvailableQuantity.Sub(quantity)
	if !updated.AvailableQuantity.IsPositive() {
		updated.AvailableQuantity = decimal.Zero
		updated.IsAvailable = false
	}

	if err := m.listings.UpdateProductStock(ctx, &updated, quantity); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Lock marks a land or equipment listing as leased out.
func (m *AvailabilityManager) Lock(ctx context.Context, kind domain.ResourceType, id int32) error {
	rt, err := m.Rentable(ctx, kind, id)
	if err != nil {
		return err
	}
	if !rt.IsAvailable {
		return domain.NewError(domain.CodeUnavailable, "%s not available", displayKind(kind))
	}
	return m.listings.SetRentableAvailability(ctx, kind, id, false)
}

// Release re-opens a land or equipment listing.
func (m *AvailabilityManager) Release(ctx context.Context, kind domain.ResourceType, id int32) error {
	return m.listings.SetRentableAvailability(ctx, kind, id, true)
}

func displayKind(kind domain.ResourceType) string {
	switch kind {
	case domain.ResourceTypeLand:
		return "Land"
	case domain.ResourceTypeEquipment:
		return "Equipment"
	}
	return "Product"
}

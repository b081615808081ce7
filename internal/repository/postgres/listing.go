package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// rentableTable describes where a rentable kind is stored.
type rentableTable struct {
	table    string
	idColumn string
	name     string
}

var rentableTables = map[domain.ResourceType]rentableTable{
	domain.ResourceTypeLand:      {table: "lands", idColumn: "land_id", name: "location"},
	domain.ResourceTypeEquipment: {table: "equipment", idColumn: "equipment_id", name: "name"},
}

func tableFor(kind domain.ResourceType) (rentableTable, error) {
	t, ok := rentableTables[kind]
	if !ok {
		return rentableTable{}, domain.NewError(domain.CodeInvalidRequest, "%q cannot be rented", kind)
	}
	return t, nil
}

type listingRepository struct {
	db DBTX
}

func NewListingRepository(db DBTX) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetProduct(ctx context.Context, id int32, forUpdate bool) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.CodeNotFound, "Product not found")
	}
	if err != nil {
		return nil, domain.StorageError("get product", err)
	}
	return p, nil
}

func (r *listingRepository) UpdateProductStock(ctx context.Context, p *domain.Product, requested decimal.Decimal) error {
	query := `UPDATE products SET quantity = $1, available_quantity = $2, is_available = $3, updated_at = NOW()
	          WHERE product_id = $4 AND is_available = true AND COALESCE(available_quantity, quantity) >= $5`
	res, err := r.db.ExecContext(ctx, query, p.Quantity, p.AvailableQuantity, p.IsAvailable, p.ID, requested)
	if err != nil {
		return domain.StorageError("update product stock", err)
	}
	n, err := rowsAffected("update product stock", res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.CodeInsufficientStock, "Product stock changed, try again")
	}
	return nil
}

func (r *listingRepository) GetRentable(ctx context.Context, kind domain.ResourceType, id int32, forUpdate bool) (*domain.Rentable, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s, owner_id, COALESCE(%s, ''), rent_price_per_day::text, is_available FROM %s WHERE %s = $1`,
		t.idColumn, t.name, t.table, t.idColumn)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rt := &domain.Rentable{Kind: kind}
	var price sql.NullString
	err = r.db.QueryRowContext(ctx, query, id).Scan(&rt.ID, &rt.OwnerID, &rt.Name, &price, &rt.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.CodeNotFound, "%s not found", displayKind(kind))
	}
	if err != nil {
		return nil, domain.StorageError("get "+string(kind), err)
	}
	rt.RentPricePerDay = price.String
	return rt, nil
}

func (r *listingRepository) SetRentableAvailability(ctx context.Context, kind domain.ResourceType, id int32, available bool) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET is_available = $1, updated_at = NOW() WHERE %s = $2 AND is_available = $3`, t.table, t.idColumn)
	res, err := r.db.ExecContext(ctx, query, available, id, !available)
	if err != nil {
		return domain.StorageError("set "+string(kind)+" availability", err)
	}
	n, err := rowsAffected("set availability", res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.CodeUnavailable, "%s not available", displayKind(kind))
	}
	return nil
}

func displayKind(kind domain.ResourceType) string {
	switch kind {
	case domain.ResourceTypeLand:
		return "Land"
	case domain.ResourceTypeEquipment:
		return "Equipment"
	case domain.ResourceTypeProduct:
		return "Product"
	}
	return string(kind)
}

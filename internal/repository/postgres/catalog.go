package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"krishimitra-backend/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	productColumns = `product_id, farmer_id, crop_name, category, quantity, COALESCE(available_quantity, quantity), unit, price_per_kg,
	          quality, location, harvest_date, COALESCE(description, ''), COALESCE(images, '{}'), is_available, is_verified, created_at, updated_at`
	landColumns = `land_id, owner_id, location, size_in_acres, rent_price_per_day, COALESCE(description, ''), COALESCE(images, '{}'),
	          is_available, is_verified, created_at, updated_at`
	equipmentColumns = `equipment_id, owner_id, name, type, COALESCE(brand, ''), COALESCE(model, ''), rent_price_per_day, location,
	          COALESCE(description, ''), COALESCE(specifications, '{}'::jsonb), COALESCE(minimum_rent_days, 1), COALESCE(images, '{}'),
	          is_available, is_verified, created_at, updated_at`
)

// listingTables maps every listing kind to its table and key column.
var listingTables = map[domain.ResourceType]rentableTable{
	domain.ResourceTypeProduct:   {table: "products", idColumn: "product_id"},
	domain.ResourceTypeLand:      rentableTables[domain.ResourceTypeLand],
	domain.ResourceTypeEquipment: rentableTables[domain.ResourceTypeEquipment],
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	// A NULL price is left at zero for the settlement price check.
	var price decimal.NullDecimal
	err := row.Scan(&p.ID, &p.FarmerID, &p.CropName, &p.Category, &p.Quantity, &p.AvailableQuantity, &p.Unit, &price,
		&p.Quality, &p.Location, &p.HarvestDate, &p.Description, pq.Array(&p.Images), &p.IsAvailable, &p.IsVerified,
		&p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	p.PricePerKg = price.Decimal
	return p, nil
}

func scanLand(row rowScanner) (*domain.Land, error) {
	l := &domain.Land{}
	var price decimal.NullDecimal
	err := row.Scan(&l.ID, &l.OwnerID, &l.Location, &l.SizeInAcres, &price, &l.Description, pq.Array(&l.Images),
		&l.IsAvailable, &l.IsVerified, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	l.RentPricePerDay = price.Decimal
	return l, nil
}

func scanEquipment(row rowScanner) (*domain.Equipment, error) {
	e := &domain.Equipment{}
	var price decimal.NullDecimal
	var specs []byte
	err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Type, &e.Brand, &e.Model, &price, &e.Location,
		&e.Description, &specs, &e.MinimumRentDays, pq.Array(&e.Images),
		&e.IsAvailable, &e.IsVerified, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	e.RentPricePerDay = price.Decimal
	e.Specifications = specs
	return e, nil
}

// listingWhere builds the WHERE clause for a catalog filter on ownerColumn.
func listingWhere(f domain.ListingFilter, ownerColumn string) (string, []any) {
	var conds []string
	var args []any
	if f.OwnerID != 0 {
		args = append(args, f.OwnerID)
		conds = append(conds, ownerColumn+" = $"+strconv.Itoa(len(args)))
	}
	if f.AvailableOnly {
		conds = append(conds, "is_available = true")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func textArray(v []string) any {
	if v == nil {
		v = []string{}
	}
	return pq.Array(v)
}

func jsonText(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func (r *listingRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (farmer_id, crop_name, category, quantity, available_quantity, unit, price_per_kg, quality,
	          location, harvest_date, description, images, is_available, is_verified, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, false, NOW(), NOW())
	          RETURNING product_id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.FarmerID, p.CropName, p.Category,
		p.Quantity.StringFixed(domain.MoneyScale), p.AvailableQuantity.StringFixed(domain.MoneyScale), p.Unit,
		p.PricePerKg.StringFixed(domain.MoneyScale), p.Quality, p.Location, p.HarvestDate, nullString(p.Description),
		textArray(p.Images), p.IsAvailable).Scan(&p.ID, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return domain.StorageError("create product", err)
	}
	return nil
}

func (r *listingRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET crop_name = $1, category = $2, quantity = $3, available_quantity = $4, unit = $5,
	          price_per_kg = $6, quality = $7, location = $8, harvest_date = $9, description = $10, images = $11,
	          is_available = $12, updated_at = NOW()
	          WHERE product_id = $13 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, p.CropName, p.Category,
		p.Quantity.StringFixed(domain.MoneyScale), p.AvailableQuantity.StringFixed(domain.MoneyScale), p.Unit,
		p.PricePerKg.StringFixed(domain.MoneyScale), p.Quality, p.Location, p.HarvestDate, nullString(p.Description),
		textArray(p.Images), p.IsAvailable, p.ID).Scan(&p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewError(domain.CodeNotFound, "Product not found")
	}
	if err != nil {
		return domain.StorageError("update product", err)
	}
	return nil
}

func (r *listingRepository) ListProducts(ctx context.Context, f domain.ListingFilter) ([]domain.Product, error) {
	where, args := listingWhere(f, "farmer_id")
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`+where+` ORDER BY product_id DESC`, args...)
	if err != nil {
		return nil, domain.StorageError("list products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.StorageError("scan product", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list products", err)
	}
	return products, nil
}

func (r *listingRepository) CreateLand(ctx context.Context, l *domain.Land) error {
	query := `INSERT INTO lands (owner_id, location, size_in_acres, rent_price_per_day, description, images, is_available,
	          is_verified, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW(), NOW())
	          RETURNING land_id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, l.OwnerID, l.Location, l.SizeInAcres,
		l.RentPricePerDay.StringFixed(domain.MoneyScale), nullString(l.Description), textArray(l.Images),
		l.IsAvailable).Scan(&l.ID, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return domain.StorageError("create land", err)
	}
	return nil
}

func (r *listingRepository) GetLand(ctx context.Context, id int32, forUpdate bool) (*domain.Land, error) {
	query := `SELECT ` + landColumns + ` FROM lands WHERE land_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	l, err := scanLand(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.CodeNotFound, "Land not found")
	}
	if err != nil {
		return nil, domain.StorageError("get land", err)
	}
	return l, nil
}

func (r *listingRepository) UpdateLand(ctx context.Context, l *domain.Land) error {
	query := `UPDATE lands SET location = $1, size_in_acres = $2, rent_price_per_day = $3, description = $4, images = $5,
	          is_available = $6, updated_at = NOW()
	          WHERE land_id = $7 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, l.Location, l.SizeInAcres, l.RentPricePerDay.StringFixed(domain.MoneyScale),
		nullString(l.Description), textArray(l.Images), l.IsAvailable, l.ID).Scan(&l.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewError(domain.CodeNotFound, "Land not found")
	}
	if err != nil {
		return domain.StorageError("update land", err)
	}
	return nil
}

func (r *listingRepository) ListLands(ctx context.Context, f domain.ListingFilter) ([]domain.Land, error) {
	where, args := listingWhere(f, "owner_id")
	rows, err := r.db.QueryContext(ctx, `SELECT `+landColumns+` FROM lands`+where+` ORDER BY land_id DESC`, args...)
	if err != nil {
		return nil, domain.StorageError("list lands", err)
	}
	defer rows.Close()

	lands := []domain.Land{}
	for rows.Next() {
		l, err := scanLand(rows)
		if err != nil {
			return nil, domain.StorageError("scan land", err)
		}
		lands = append(lands, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list lands", err)
	}
	return lands, nil
}

func (r *listingRepository) CreateEquipment(ctx context.Context, e *domain.Equipment) error {
	query := `INSERT INTO equipment (owner_id, name, type, brand, model, rent_price_per_day, location, description,
	          specifications, minimum_rent_days, images, is_available, is_verified, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, false, NOW(), NOW())
	          RETURNING equipment_id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, e.OwnerID, e.Name, e.Type, nullString(e.Brand), nullString(e.Model),
		e.RentPricePerDay.StringFixed(domain.MoneyScale), e.Location, nullString(e.Description),
		jsonText(e.Specifications), e.MinimumRentDays, textArray(e.Images), e.IsAvailable).
		Scan(&e.ID, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return domain.StorageError("create equipment", err)
	}
	return nil
}

func (r *listingRepository) GetEquipment(ctx context.Context, id int32, forUpdate bool) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE equipment_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.CodeNotFound, "Equipment not found")
	}
	if err != nil {
		return nil, domain.StorageError("get equipment", err)
	}
	return e, nil
}

func (r *listingRepository) UpdateEquipment(ctx context.Context, e *domain.Equipment) error {
	query := `UPDATE equipment SET name = $1, type = $2, brand = $3, model = $4, rent_price_per_day = $5, location = $6,
	          description = $7, specifications = $8, minimum_rent_days = $9, images = $10, is_available = $11,
	          updated_at = NOW()
	          WHERE equipment_id = $12 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, e.Name, e.Type, nullString(e.Brand), nullString(e.Model),
		e.RentPricePerDay.StringFixed(domain.MoneyScale), e.Location, nullString(e.Description),
		jsonText(e.Specifications), e.MinimumRentDays, textArray(e.Images), e.IsAvailable, e.ID).Scan(&e.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewError(domain.CodeNotFound, "Equipment not found")
	}
	if err != nil {
		return domain.StorageError("update equipment", err)
	}
	return nil
}

func (r *listingRepository) ListEquipment(ctx context.Context, f domain.ListingFilter) ([]domain.Equipment, error) {
	where, args := listingWhere(f, "owner_id")
	rows, err := r.db.QueryContext(ctx, `SELECT `+equipmentColumns+` FROM equipment`+where+` ORDER BY equipment_id DESC`, args...)
	if err != nil {
		return nil, domain.StorageError("list equipment", err)
	}
	defer rows.Close()

	items := []domain.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, domain.StorageError("scan equipment", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list equipment", err)
	}
	return items, nil
}

func (r *listingRepository) DeleteListing(ctx context.Context, kind domain.ResourceType, id int32) error {
	t, ok := listingTables[kind]
	if !ok {
		return domain.NewError(domain.CodeInvalidRequest, "unknown listing type %q", kind)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE `+t.idColumn+` = $1`, id)
	if err != nil {
		return domain.StorageError("delete "+string(kind), err)
	}
	n, err := rowsAffected("delete "+string(kind), res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.CodeNotFound, "%s not found", displayKind(kind))
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/repository"
)

const (
	transactionColumns = `transaction_id, buyer_id, seller_id, product_id, lease_id, quantity, total_amount, payment_method, status, created_at`
	leaseColumns       = `lease_id, renter_id, owner_id, land_id, equipment_id, lease_type, start_date, end_date, total_days, total_amount, payment_method, status, created_at, updated_at`
)

type ledgerRepository struct {
	db DBTX
}

func NewLedgerRepository(db DBTX) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	if tx.CreatedOn.IsZero() {
		tx.CreatedOn = time.Now().UTC()
	}
	query := `INSERT INTO transactions (buyer_id, seller_id, product_id, lease_id, quantity, total_amount, payment_method, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING transaction_id`
	err := r.db.QueryRowContext(ctx, query, tx.BuyerID, tx.SellerID, tx.ProductID, tx.LeaseID,
		tx.Quantity.StringFixed(domain.MoneyScale), tx.TotalAmount.StringFixed(domain.MoneyScale),
		tx.PaymentMethod, tx.Status, tx.CreatedOn).Scan(&tx.ID)
	if err != nil {
		return domain.StorageError("create transaction", err)
	}
	return nil
}

func (r *ledgerRepository) ListTransactionsByBuyer(ctx context.Context, buyerID int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE buyer_id = $1 ORDER BY created_at DESC, transaction_id DESC`
	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, domain.StorageError("list transactions", err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var productID, leaseID sql.NullInt32
		if err := rows.Scan(&tx.ID, &tx.BuyerID, &tx.SellerID, &productID, &leaseID, &tx.Quantity, &tx.TotalAmount, &tx.PaymentMethod, &tx.Status, &tx.CreatedOn); err != nil {
			return nil, domain.StorageError("scan transaction", err)
		}
		tx.ProductID = nullInt32Ptr(productID)
		tx.LeaseID = nullInt32Ptr(leaseID)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list transactions", err)
	}
	return txs, nil
}

func (r *ledgerRepository) CreateLease(ctx context.Context, l *domain.Lease) error {
	now := time.Now().UTC()
	if l.CreatedOn.IsZero() {
		l.CreatedOn = now
	}
	l.UpdatedOn = l.CreatedOn

	var landID, equipmentID *int32
	switch l.LeaseType {
	case domain.ResourceTypeLand:
		landID = &l.ResourceID
	case domain.ResourceTypeEquipment:
		equipmentID = &l.ResourceID
	default:
		return domain.NewError(domain.CodeInvalidRequest, "invalid lease type %q", l.LeaseType)
	}

	query := `INSERT INTO leases (renter_id, owner_id, land_id, equipment_id, lease_type, start_date, end_date, total_days, total_amount, payment_method, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING lease_id`
	err := r.db.QueryRowContext(ctx, query, l.RenterID, l.OwnerID, landID, equipmentID, l.LeaseType,
		l.StartDate, l.EndDate, l.TotalDays, l.TotalAmount.StringFixed(domain.MoneyScale),
		l.PaymentMethod, l.Status, l.CreatedOn, l.UpdatedOn).Scan(&l.ID)
	if err != nil {
		return domain.StorageError("create lease", err)
	}
	return nil
}

func (r *ledgerRepository) GetLease(ctx context.Context, id int32, forUpdate bool) (*domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE lease_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	l, err := scanLease(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewError(domain.CodeNotFound, "Lease not found")
	}
	if err != nil {
		return nil, domain.StorageError("get lease", err)
	}
	return l, nil
}

func (r *ledgerRepository) UpdateLeaseStatus(ctx context.Context, id int32, status domain.LeaseStatus) error {
	query := `UPDATE leases SET status = $1, updated_at = $2 WHERE lease_id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return domain.StorageError("update lease status", err)
	}
	n, err := rowsAffected("update lease status", res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.CodeNotFound, "Lease not found")
	}
	return nil
}

func (r *ledgerRepository) ListLeasesByRenter(ctx context.Context, renterID int32) ([]domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE renter_id = $1 ORDER BY created_at DESC, lease_id DESC`
	return r.queryLeases(ctx, query, renterID)
}

func (r *ledgerRepository) ListLeases(ctx context.Context) ([]domain.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases ORDER BY created_at DESC, lease_id DESC`
	return r.queryLeases(ctx, query)
}

func (r *ledgerRepository) queryLeases(ctx context.Context, query string, args ...any) ([]domain.Lease, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError("list leases", err)
	}
	defer rows.Close()

	leases := []domain.Lease{}
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, domain.StorageError("scan lease", err)
		}
		leases = append(leases, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list leases", err)
	}
	return leases, nil
}

// DeleteLease removes the lease row. Transactions that paid for it keep
// their row; the schema nulls their lease_id.
func (r *ledgerRepository) DeleteLease(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leases WHERE lease_id = $1`, id)
	if err != nil {
		return domain.StorageError("delete lease", err)
	}
	n, err := rowsAffected("delete lease", res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewError(domain.CodeNotFound, "Lease not found")
	}
	return nil
}

func (r *ledgerRepository) HasPendingLease(ctx context.Context, kind domain.ResourceType, id int32) (bool, error) {
	var column string
	switch kind {
	case domain.ResourceTypeLand:
		column = "land_id"
	case domain.ResourceTypeEquipment:
		column = "equipment_id"
	default:
		return false, domain.NewError(domain.CodeInvalidRequest, "%q cannot be leased", kind)
	}
	query := `SELECT EXISTS (SELECT 1 FROM leases WHERE ` + column + ` = $1 AND status = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id, domain.LeaseStatusPending).Scan(&exists); err != nil {
		return false, domain.StorageError("check pending lease", err)
	}
	return exists, nil
}

func (r *ledgerRepository) ListExpiredLeaseIDs(ctx context.Context, now time.Time) ([]int32, error) {
	query := `SELECT lease_id FROM leases WHERE status = $1 AND end_date < $2 ORDER BY lease_id`
	rows, err := r.db.QueryContext(ctx, query, domain.LeaseStatusPending, now)
	if err != nil {
		return nil, domain.StorageError("list expired leases", err)
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, domain.StorageError("scan lease id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list expired leases", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (*domain.Lease, error) {
	l := &domain.Lease{}
	var landID, equipmentID sql.NullInt32
	err := row.Scan(&l.ID, &l.RenterID, &l.OwnerID, &landID, &equipmentID, &l.LeaseType,
		&l.StartDate, &l.EndDate, &l.TotalDays, &l.TotalAmount, &l.PaymentMethod, &l.Status, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	switch {
	case landID.Valid:
		l.ResourceID = landID.Int32
	case equipmentID.Valid:
		l.ResourceID = equipmentID.Int32
	}
	return l, nil
}

func nullInt32Ptr(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	id := v.Int32
	return &id
}

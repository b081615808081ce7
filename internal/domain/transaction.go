package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeRent TransactionType = "rent"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// DefaultPaymentMethod is recorded when the caller does not name one.
const DefaultPaymentMethod = "demo"

// Transaction is the ledger entry written for every settlement.
type Transaction struct {
	ID            int32             `json:"transaction_id"`
	BuyerID       int32             `json:"buyer_id"`
	SellerID      int32             `json:"seller_id"`
	ProductID     *int32            `json:"product_id,omitempty"`
	LeaseID       *int32            `json:"lease_id,omitempty"`
	Quantity      decimal.Decimal   `json:"quantity"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	PaymentMethod string            `json:"payment_method"`
	Status        TransactionStatus `json:"status"`
	CreatedOn     time.Time         `json:"created_on"`
}

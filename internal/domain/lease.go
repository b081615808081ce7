package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaseStatus string

const (
	LeaseStatusPending   LeaseStatus = "pending"
	LeaseStatusCompleted LeaseStatus = "completed"
	LeaseStatusFailed    LeaseStatus = "failed"
)

func (s LeaseStatus) Valid() bool {
	return s == LeaseStatusPending || s == LeaseStatusCompleted || s == LeaseStatusFailed
}

// Terminal statuses never change again.
func (s LeaseStatus) Terminal() bool {
	return s == LeaseStatusCompleted || s == LeaseStatusFailed
}

// CanTransitionTo reports whether a lease may move from s to next.
func (s LeaseStatus) CanTransitionTo(next LeaseStatus) bool {
	return s == LeaseStatusPending && next.Terminal()
}

type Lease struct {
	ID            int32           `json:"lease_id"`
	RenterID      int32           `json:"renter_id"`
	OwnerID       int32           `json:"owner_id"`
	LeaseType     ResourceType    `json:"lease_type"`
	ResourceID    int32           `json:"resource_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalDays     int32           `json:"total_days"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        LeaseStatus     `json:"status"`
	CreatedOn     time.Time       `json:"created_on"`
	UpdatedOn     time.Time       `json:"updated_on"`
}

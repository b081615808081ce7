package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ResourceType string

const (
	ResourceTypeProduct   ResourceType = "product"
	ResourceTypeLand      ResourceType = "land"
	ResourceTypeEquipment ResourceType = "equipment"
)

func (r ResourceType) Valid() bool {
	return r == ResourceTypeProduct || r == ResourceTypeLand || r == ResourceTypeEquipment
}

// Rentable reports whether listings of this type are leased rather than sold.
func (r ResourceType) Rentable() bool {
	return r == ResourceTypeLand || r == ResourceTypeEquipment
}

// Listing is the capability shared by products, land and equipment.
type Listing interface {
	ListingID() int32
	ListingType() ResourceType
	SellerID() int32
	Available() bool
}

// ListingFilter narrows catalog listings. A zero OwnerID matches every owner.
type ListingFilter struct {
	OwnerID       int32
	AvailableOnly bool
}

// Product is produce sold by weight. Quantities are in kilograms.
type Product struct {
	ID                int32           `json:"product_id"`
	FarmerID          int32           `json:"farmer_id"`
	CropName          string          `json:"crop_name"`
	Category          string          `json:"category"`
	Quantity          decimal.Decimal `json:"quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Unit              string          `json:"unit"`
	PricePerKg        decimal.Decimal `json:"price_per_kg"`
	Quality           string          `json:"quality"`
	Location          string          `json:"location"`
	HarvestDate       time.Time       `json:"harvest_date"`
	Description       string          `json:"description"`
	Images            []string        `json:"images"`
	IsAvailable       bool            `json:"is_available"`
	IsVerified        bool            `json:"is_verified"`
	CreatedOn         time.Time       `json:"created_on"`
	UpdatedOn         time.Time       `json:"updated_on"`
}

func (p *Product) ListingID() int32          { return p.ID }
func (p *Product) ListingType() ResourceType { return ResourceTypeProduct }
func (p *Product) SellerID() int32           { return p.FarmerID }

func (p *Product) Available() bool {
	return p.IsAvailable && p.AvailableQuantity.IsPositive()
}

// Rentable is a land parcel or a piece of equipment. It carries a single
// exclusive availability flag: false while leased out.
type Rentable struct {
	ID              int32        `json:"id"`
	Kind            ResourceType `json:"kind"`
	OwnerID         int32        `json:"owner_id"`
	Name            string       `json:"name"`
	RentPricePerDay string       `json:"rent_price_per_day"`
	IsAvailable     bool         `json:"is_available"`
}

func (r *Rentable) ListingID() int32          { return r.ID }
func (r *Rentable) ListingType() ResourceType { return r.Kind }
func (r *Rentable) SellerID() int32           { return r.OwnerID }
func (r *Rentable) Available() bool           { return r.IsAvailable }

// Land is a parcel offered for lease.
type Land struct {
	ID              int32           `json:"land_id"`
	OwnerID         int32           `json:"owner_id"`
	Location        string          `json:"location"`
	SizeInAcres     float64         `json:"size_in_acres"`
	RentPricePerDay decimal.Decimal `json:"rent_price_per_day"`
	Description     string          `json:"description"`
	Images          []string        `json:"images"`
	IsAvailable     bool            `json:"is_available"`
	IsVerified      bool            `json:"is_verified"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// Equipment is farm machinery offered for lease.
type Equipment struct {
	ID              int32           `json:"equipment_id"`
	OwnerID         int32           `json:"owner_id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	RentPricePerDay decimal.Decimal `json:"rent_price_per_day"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	Specifications  json.RawMessage `json:"specifications"`
	MinimumRentDays int32           `json:"minimum_rent_days"`
	Images          []string        `json:"images"`
	IsAvailable     bool            `json:"is_available"`
	IsVerified      bool            `json:"is_verified"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// DailyPrice parses the stored rent price. It fails with ErrInvalidPrice
// when the value is missing, malformed or not positive.
func (r *Rentable) DailyPrice() (decimal.Decimal, error) {
	price, ok := ParseMoney(r.RentPricePerDay)
	if !ok || !price.IsPositive() {
		return decimal.Zero, NewError(CodeInvalidPrice, "Invalid rent_price_per_day for this %s", r.Kind)
	}
	return price, nil
}

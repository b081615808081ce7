package http

import (
	"encoding/json"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID            int32  `json:"transaction_id"`
	BuyerID       int32  `json:"buyer_id"`
	SellerID      int32  `json:"seller_id"`
	ProductID     *int32 `json:"product_id"`
	LeaseID       *int32 `json:"lease_id"`
	Quantity      string `json:"quantity"`
	TotalAmount   string `json:"total_amount"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

type LeaseResponse struct {
	ID            int32  `json:"lease_id"`
	RenterID      int32  `json:"renter_id"`
	OwnerID       int32  `json:"owner_id"`
	LeaseType     string `json:"lease_type"`
	LandID        *int32 `json:"land_id"`
	EquipmentID   *int32 `json:"equipment_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalDays     int32  `json:"total_days"`
	TotalAmount   string `json:"total_amount"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func MapDomainTransactionToResponse(t *domain.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	return &TransactionResponse{
		ID:            t.ID,
		BuyerID:       t.BuyerID,
		SellerID:      t.SellerID,
		ProductID:     t.ProductID,
		LeaseID:       t.LeaseID,
		Quantity:      formatQuantity(t.Quantity),
		TotalAmount:   domain.FormatMoney(t.TotalAmount),
		PaymentMethod: t.PaymentMethod,
		Status:        string(t.Status),
		CreatedAt:     utils.FormatTimestamp(t.CreatedOn),
	}
}

func MapDomainLeaseToResponse(l *domain.Lease) *LeaseResponse {
	if l == nil {
		return nil
	}
	resp := &LeaseResponse{
		ID:            l.ID,
		RenterID:      l.RenterID,
		OwnerID:       l.OwnerID,
		LeaseType:     string(l.LeaseType),
		StartDate:     utils.FormatDate(l.StartDate),
		EndDate:       utils.FormatDate(l.EndDate),
		TotalDays:     l.TotalDays,
		TotalAmount:   domain.FormatMoney(l.TotalAmount),
		PaymentMethod: l.PaymentMethod,
		Status:        string(l.Status),
		CreatedAt:     utils.FormatTimestamp(l.CreatedOn),
		UpdatedAt:     utils.FormatTimestamp(l.UpdatedOn),
	}
	resourceID := l.ResourceID
	switch l.LeaseType {
	case domain.ResourceTypeLand:
		resp.LandID = &resourceID
	case domain.ResourceTypeEquipment:
		resp.EquipmentID = &resourceID
	}
	return resp
}

func MapDomainTransactionsToResponse(txs []domain.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, len(txs))
	for i := range txs {
		out[i] = MapDomainTransactionToResponse(&txs[i])
	}
	return out
}

func MapDomainLeasesToResponse(leases []domain.Lease) []*LeaseResponse {
	out := make([]*LeaseResponse, len(leases))
	for i := range leases {
		out[i] = MapDomainLeaseToResponse(&leases[i])
	}
	return out
}

// formatQuantity renders kg quantities with up to two decimals.
func formatQuantity(q decimal.Decimal) string {
	return domain.RoundMoney(q).String()
}

type ProductResponse struct {
	ID                int32    `json:"product_id"`
	FarmerID          int32    `json:"farmer_id"`
	CropName          string   `json:"crop_name"`
	Category          string   `json:"category"`
	Quantity          string   `json:"quantity"`
	AvailableQuantity string   `json:"available_quantity"`
	Unit              string   `json:"unit"`
	PricePerKg        string   `json:"price_per_kg"`
	Quality           string   `json:"quality"`
	Location          string   `json:"location"`
	HarvestDate       string   `json:"harvest_date"`
	Description       string   `json:"description"`
	Images            []string `json:"images"`
	IsAvailable       bool     `json:"is_available"`
	IsVerified        bool     `json:"is_verified"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// LandResponse reports the daily rent under both of its request names.
type LandResponse struct {
	ID              int32    `json:"land_id"`
	OwnerID         int32    `json:"owner_id"`
	Location        string   `json:"location"`
	SizeInAcres     float64  `json:"size_in_acres"`
	PricePerDay     string   `json:"price_per_day"`
	RentPricePerDay string   `json:"rent_price_per_day"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	IsAvailable     bool     `json:"is_available"`
	IsVerified      bool     `json:"is_verified"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type EquipmentResponse struct {
	ID              int32           `json:"equipment_id"`
	OwnerID         int32           `json:"owner_id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	RentPricePerDay string          `json:"rent_price_per_day"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	Specifications  json.RawMessage `json:"specifications"`
	MinimumRentDays int32           `json:"minimum_rent_days"`
	Images          []string        `json:"images"`
	IsAvailable     bool            `json:"is_available"`
	IsVerified      bool            `json:"is_verified"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func MapDomainProductToResponse(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:                p.ID,
		FarmerID:          p.FarmerID,
		CropName:          p.CropName,
		Category:          p.Category,
		Quantity:          formatQuantity(p.Quantity),
		AvailableQuantity: formatQuantity(p.AvailableQuantity),
		Unit:              p.Unit,
		PricePerKg:        domain.FormatMoney(p.PricePerKg),
		Quality:           p.Quality,
		Location:          p.Location,
		HarvestDate:       utils.FormatDate(p.HarvestDate),
		Description:       p.Description,
		Images:            nonNil(p.Images),
		IsAvailable:       p.IsAvailable,
		IsVerified:        p.IsVerified,
		CreatedAt:         utils.FormatTimestamp(p.CreatedOn),
		UpdatedAt:         utils.FormatTimestamp(p.UpdatedOn),
	}
}

func MapDomainLandToResponse(l *domain.Land) *LandResponse {
	if l == nil {
		return nil
	}
	price := domain.FormatMoney(l.RentPricePerDay)
	return &LandResponse{
		ID:              l.ID,
		OwnerID:         l.OwnerID,
		Location:        l.Location,
		SizeInAcres:     l.SizeInAcres,
		PricePerDay:     price,
		RentPricePerDay: price,
		Description:     l.Description,
		Images:          nonNil(l.Images),
		IsAvailable:     l.IsAvailable,
		IsVerified:      l.IsVerified,
		CreatedAt:       utils.FormatTimestamp(l.CreatedOn),
		UpdatedAt:       utils.FormatTimestamp(l.UpdatedOn),
	}
}

func MapDomainEquipmentToResponse(e *domain.Equipment) *EquipmentResponse {
	if e == nil {
		return nil
	}
	specs := e.Specifications
	if len(specs) == 0 {
		specs = json.RawMessage(`{}`)
	}
	return &EquipmentResponse{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		Name:            e.Name,
		Type:            e.Type,
		Brand:           e.Brand,
		Model:           e.Model,
		RentPricePerDay: domain.FormatMoney(e.RentPricePerDay),
		Location:        e.Location,
		Description:     e.Description,
		Specifications:  specs,
		MinimumRentDays: e.MinimumRentDays,
		Images:          nonNil(e.Images),
		IsAvailable:     e.IsAvailable,
		IsVerified:      e.IsVerified,
		CreatedAt:       utils.FormatTimestamp(e.CreatedOn),
		UpdatedAt:       utils.FormatTimestamp(e.UpdatedOn),
	}
}

func MapDomainProductsToResponse(products []domain.Product) []*ProductResponse {
	out := make([]*ProductResponse, len(products))
	for i := range products {
		out[i] = MapDomainProductToResponse(&products[i])
	}
	return out
}

func MapDomainLandsToResponse(lands []domain.Land) []*LandResponse {
	out := make([]*LandResponse, len(lands))
	for i := range lands {
		out[i] = MapDomainLandToResponse(&lands[i])
	}
	return out
}

func MapDomainEquipmentListToResponse(items []domain.Equipment) []*EquipmentResponse {
	out := make([]*EquipmentResponse, len(items))
	for i := range items {
		out[i] = MapDomainEquipmentToResponse(&items[i])
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

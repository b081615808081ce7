package service

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"
	"krishimitra-backend/internal/utils"

	"github.com/shopspring/decimal"
)

var (
	productCategories = []string{"cereals", "pulses", "vegetables", "fruits", "spices", "flowers", "other"}
	productUnits      = []string{"kg", "quintal", "ton"}
	productQualities  = []string{"A", "B", "C", "organic", "premium"}
	equipmentTypes    = []string{"tractor", "harvester", "plough", "irrigation", "sprayer", "tiller", "other"}

	earliestHarvest = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
)

const defaultLandDescription = "No description provided"

// ProductFields carries the writable product attributes. Nil fields are
// left unchanged on update.
type ProductFields struct {
	CropName    *string          `json:"crop_name"`
	Category    *string          `json:"category"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Unit        *string          `json:"unit"`
	PricePerKg  *decimal.Decimal `json:"price_per_kg"`
	Quality     *string          `json:"quality"`
	Location    *string          `json:"location"`
	HarvestDate *string          `json:"harvest_date"`
	Description *string          `json:"description"`
	Images      []string         `json:"images"`
	IsAvailable *bool            `json:"is_available"`
}

func (f ProductFields) empty() bool {
	return f.CropName == nil && f.Category == nil && f.Quantity == nil && f.Unit == nil && f.PricePerKg == nil &&
		f.Quality == nil && f.Location == nil && f.HarvestDate == nil && f.Description == nil &&
		f.Images == nil && f.IsAvailable == nil
}

func (f ProductFields) complete() bool {
	return f.CropName != nil && f.Category != nil && f.Quantity != nil &&
		f.PricePerKg != nil && f.Location != nil && f.HarvestDate != nil
}

func (f ProductFields) apply(p *domain.Product) error {
	if f.CropName != nil {
		if err := checkLength("crop_name", *f.CropName, 2, 50); err != nil {
			return err
		}
		p.CropName = strings.TrimSpace(*f.CropName)
	}
	if f.Category != nil {
		if err := checkOneOf("category", *f.Category, productCategories); err != nil {
			return err
		}
		p.Category = *f.Category
	}
	if f.Quantity != nil {
		if err := checkRange("quantity", *f.Quantity, decimal.RequireFromString("0.1"), decimal.NewFromInt(100000)); err != nil {
			return err
		}
		// A new quantity restocks the listing.
		p.Quantity = *f.Quantity
		p.AvailableQuantity = *f.Quantity
	}
	if f.Unit != nil {
		if err := checkOneOf("unit", *f.Unit, productUnits); err != nil {
			return err
		}
		p.Unit = *f.Unit
	}
	if f.PricePerKg != nil {
		if err := checkRange("price_per_kg", *f.PricePerKg, decimal.NewFromInt(1), decimal.NewFromInt(1000)); err != nil {
			return err
		}
		p.PricePerKg = *f.PricePerKg
	}
	if f.Quality != nil {
		if err := checkOneOf("quality", *f.Quality, productQualities); err != nil {
			return err
		}
		p.Quality = *f.Quality
	}
	if f.Location != nil {
		if err := checkLength("location", *f.Location, 2, 100); err != nil {
			return err
		}
		p.Location = strings.TrimSpace(*f.Location)
	}
	if f.HarvestDate != nil {
		d, err := utils.ParseDate(*f.HarvestDate)
		if err != nil || !d.After(earliestHarvest) {
			return domain.NewError(domain.CodeValidation, "harvest_date must be a valid date after 2020-01-01")
		}
		p.HarvestDate = d
	}
	if f.Description != nil {
		if err := checkLength("description", *f.Description, 10, 1000); err != nil {
			return err
		}
		p.Description = strings.TrimSpace(*f.Description)
	}
	if f.Images != nil {
		p.Images = f.Images
	}
	if f.IsAvailable != nil {
		p.IsAvailable = *f.IsAvailable
	}
	if !p.AvailableQuantity.IsPositive() {
		p.IsAvailable = false
	}
	return nil
}

// LandFields carries the writable land attributes. The daily rent is
// accepted as price_per_day or rent_price_per_day.
type LandFields struct {
	Location        *string          `json:"location"`
	SizeInAcres     *float64         `json:"size_in_acres"`
	PricePerDay     *decimal.Decimal `json:"price_per_day"`
	RentPricePerDay *decimal.Decimal `json:"rent_price_per_day"`
	Description     *string          `json:"description"`
	Images          []string         `json:"images"`
	IsAvailable     *bool            `json:"is_available"`
}

func (f LandFields) price() *decimal.Decimal {
	if f.PricePerDay != nil {
		return f.PricePerDay
	}
	return f.RentPricePerDay
}

func (f LandFields) empty() bool {
	return f.Location == nil && f.SizeInAcres == nil && f.price() == nil &&
		f.Description == nil && f.Images == nil && f.IsAvailable == nil
}

func (f LandFields) complete() bool {
	return f.Location != nil && f.SizeInAcres != nil && f.price() != nil
}

func (f LandFields) apply(l *domain.Land) error {
	if f.Location != nil {
		if err := checkLength("location", *f.Location, 2, 255); err != nil {
			return err
		}
		l.Location = strings.TrimSpace(*f.Location)
	}
	if f.SizeInAcres != nil {
		if *f.SizeInAcres < 0.1 || *f.SizeInAcres > 10000 {
			return domain.NewError(domain.CodeValidation, "size_in_acres must be between 0.1 and 10000")
		}
		l.SizeInAcres = *f.SizeInAcres
	}
	if price := f.price(); price != nil {
		if err := checkRange("price_per_day", *price, decimal.NewFromInt(100), decimal.NewFromInt(100000)); err != nil {
			return err
		}
		l.RentPricePerDay = *price
	}
	if f.Description != nil {
		l.Description = strings.TrimSpace(*f.Description)
	}
	if l.Description == "" {
		l.Description = defaultLandDescription
	}
	if f.Images != nil {
		l.Images = f.Images
	}
	if f.IsAvailable != nil {
		l.IsAvailable = *f.IsAvailable
	}
	return nil
}

// EquipmentFields carries the writable equipment attributes.
type EquipmentFields struct {
	Name            *string          `json:"name"`
	Type            *string          `json:"type"`
	Brand           *string          `json:"brand"`
	Model           *string          `json:"model"`
	RentPricePerDay *decimal.Decimal `json:"rent_price_per_day"`
	Location        *string          `json:"location"`
	Description     *string          `json:"description"`
	Specifications  json.RawMessage  `json:"specifications"`
	MinimumRentDays *int32           `json:"minimum_rent_days"`
	Images          []string         `json:"images"`
	IsAvailable     *bool            `json:"is_available"`
}

func (f EquipmentFields) empty() bool {
	return f.Name == nil && f.Type == nil && f.Brand == nil && f.Model == nil && f.RentPricePerDay == nil &&
		f.Location == nil && f.Description == nil && f.Specifications == nil && f.MinimumRentDays == nil &&
		f.Images == nil && f.IsAvailable == nil
}

func (f EquipmentFields) complete() bool {
	return f.Name != nil && f.Type != nil && f.RentPricePerDay != nil && f.Location != nil
}

func (f EquipmentFields) apply(e *domain.Equipment) error {
	if f.Name != nil {
		if err := checkLength("name", *f.Name, 2, 100); err != nil {
			return err
		}
		e.Name = strings.TrimSpace(*f.Name)
	}
	if f.Type != nil {
		if err := checkOneOf("type", *f.Type, equipmentTypes); err != nil {
			return err
		}
		e.Type = *f.Type
	}
	if f.Brand != nil {
		if err := checkLength("brand", *f.Brand, 1, 50); err != nil {
			return err
		}
		e.Brand = strings.TrimSpace(*f.Brand)
	}
	if f.Model != nil {
		if err := checkLength("model", *f.Model, 1, 50); err != nil {
			return err
		}
		e.Model = strings.TrimSpace(*f.Model)
	}
	if f.RentPricePerDay != nil {
		if err := checkRange("rent_price_per_day", *f.RentPricePerDay, decimal.NewFromInt(100), decimal.NewFromInt(50000)); err != nil {
			return err
		}
		e.RentPricePerDay = *f.RentPricePerDay
	}
	if f.Location != nil {
		if err := checkLength("location", *f.Location, 2, 255); err != nil {
			return err
		}
		e.Location = strings.TrimSpace(*f.Location)
	}
	if f.Description != nil {
		e.Description = strings.TrimSpace(*f.Description)
	}
	if f.Specifications != nil {
		if !strings.HasPrefix(strings.TrimSpace(string(f.Specifications)), "{") {
			return domain.NewError(domain.CodeValidation, "specifications must be a JSON object")
		}
		e.Specifications = f.Specifications
	}
	if f.MinimumRentDays != nil {
		if *f.MinimumRentDays < 1 {
			return domain.NewError(domain.CodeValidation, "minimum_rent_days must be at least 1")
		}
		e.MinimumRentDays = *f.MinimumRentDays
	}
	if f.Images != nil {
		e.Images = f.Images
	}
	if f.IsAvailable != nil {
		e.IsAvailable = *f.IsAvailable
	}
	return nil
}

func checkLength(field, v string, min, max int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n < min || n > max {
		return domain.NewError(domain.CodeValidation, "%s must be between %d and %d characters", field, min, max)
	}
	return nil
}

func checkOneOf(field, v string, allowed []string) error {
	if !slices.Contains(allowed, v) {
		return domain.NewError(domain.CodeValidation, "%s must be one of %s", field, strings.Join(allowed, ", "))
	}
	return nil
}

// checkRange also rejects amounts with more fraction digits than are stored.
func checkRange(field string, v, min, max decimal.Decimal) error {
	if v.LessThan(min) || v.GreaterThan(max) {
		return domain.NewError(domain.CodeValidation, "%s must be between %s and %s", field, min.String(), max.String())
	}
	if !v.Equal(domain.RoundMoney(v)) {
		return domain.NewError(domain.CodeValidation, "%s can have at most 2 decimal places", field)
	}
	return nil
}

func missingFields() error {
	return domain.NewError(domain.CodeValidation, "Missing required fields")
}

func noFields() error {
	return domain.NewError(domain.CodeValidation, "No valid fields provided for update")
}

func notOwner(action string, kind domain.ResourceType) error {
	return domain.NewError(domain.CodeForbidden, "Unauthorized: You can only %s your own %s", action, kind)
}

type listingService struct {
	tx       repository.Transactor
	listings repository.ListingRepository
}

func NewListingService(tx repository.Transactor, listings repository.ListingRepository) ListingService {
	return &listingService{tx: tx, listings: listings}
}

func (s *listingService) CreateProduct(ctx context.Context, ownerID int32, f ProductFields) (*domain.Product, error) {
	if !f.complete() {
		return nil, missingFields()
	}
	p := &domain.Product{FarmerID: ownerID, Unit: "kg", Quality: "A", IsAvailable: true}
	if err := f.apply(p); err != nil {
		return nil, err
	}
	if err := s.listings.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Product listed", "product_id", p.ID, "farmer_id", ownerID)
	return p, nil
}

func (s *listingService) UpdateProduct(ctx context.Context, ownerID, id int32, f ProductFields) (*domain.Product, error) {
	if f.empty() {
		return nil, noFields()
	}
	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Listings.GetProduct(ctx, id, true)
		if err != nil {
			return err
		}
		if p.FarmerID != ownerID {
			return notOwner("update", domain.ResourceTypeProduct)
		}
		if err := f.apply(p); err != nil {
			return err
		}
		if err := repos.Listings.UpdateProduct(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *listingService) GetProduct(ctx context.Context, id int32) (*domain.Product, error) {
	return s.listings.GetProduct(ctx, id, false)
}

func (s *listingService) ListProducts(ctx context.Context, f domain.ListingFilter) ([]domain.Product, error) {
	return s.listings.ListProducts(ctx, f)
}

func (s *listingService) CreateLand(ctx context.Context, ownerID int32, f LandFields) (*domain.Land, error) {
	if !f.complete() {
		return nil, missingFields()
	}
	l := &domain.Land{OwnerID: ownerID, IsAvailable: true}
	if err := f.apply(l); err != nil {
		return nil, err
	}
	if err := s.listings.CreateLand(ctx, l); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Land listed", "land_id", l.ID, "owner_id", ownerID)
	return l, nil
}

func (s *listingService) UpdateLand(ctx context.Context, ownerID, id int32, f LandFields) (*domain.Land, error) {
	if f.empty() {
		return nil, noFields()
	}
	var land *domain.Land
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		l, err := repos.Listings.GetLand(ctx, id, true)
		if err != nil {
			return err
		}
		if l.OwnerID != ownerID {
			return notOwner("update", domain.ResourceTypeLand)
		}
		if reopens(f.IsAvailable, l.IsAvailable) {
			if err := checkNotLeased(ctx, repos.Ledger, domain.ResourceTypeLand, id, "mark available"); err != nil {
				return err
			}
		}
		if err := f.apply(l); err != nil {
			return err
		}
		if err := repos.Listings.UpdateLand(ctx, l); err != nil {
			return err
		}
		land = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return land, nil
}

func (s *listingService) GetLand(ctx context.Context, id int32) (*domain.Land, error) {
	return s.listings.GetLand(ctx, id, false)
}

func (s *listingService) ListLands(ctx context.Context, f domain.ListingFilter) ([]domain.Land, error) {
	return s.listings.ListLands(ctx, f)
}

func (s *listingService) CreateEquipment(ctx context.Context, ownerID int32, f EquipmentFields) (*domain.Equipment, error) {
	if !f.complete() {
		return nil, missingFields()
	}
	e := &domain.Equipment{OwnerID: ownerID, MinimumRentDays: 1, IsAvailable: true}
	if err := f.apply(e); err != nil {
		return nil, err
	}
	if err := s.listings.CreateEquipment(ctx, e); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Equipment listed", "equipment_id", e.ID, "owner_id", ownerID)
	return e, nil
}

func (s *listingService) UpdateEquipment(ctx context.Context, ownerID, id int32, f EquipmentFields) (*domain.Equipment, error) {
	if f.empty() {
		return nil, noFields()
	}
	var equipment *domain.Equipment
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		e, err := repos.Listings.GetEquipment(ctx, id, true)
		if err != nil {
			return err
		}
		if e.OwnerID != ownerID {
			return notOwner("update", domain.ResourceTypeEquipment)
		}
		if reopens(f.IsAvailable, e.IsAvailable) {
			if err := checkNotLeased(ctx, repos.Ledger, domain.ResourceTypeEquipment, id, "mark available"); err != nil {
				return err
			}
		}
		if err := f.apply(e); err != nil {
			return err
		}
		if err := repos.Listings.UpdateEquipment(ctx, e); err != nil {
			return err
		}
		equipment = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *listingService) GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error) {
	return s.listings.GetEquipment(ctx, id, false)
}

func (s *listingService) ListEquipment(ctx context.Context, f domain.ListingFilter) ([]domain.Equipment, error) {
	return s.listings.ListEquipment(ctx, f)
}

// DeleteListing removes a listing owned by ownerID. Land and equipment
// under a pending lease cannot be deleted.
func (s *listingService) DeleteListing(ctx context.Context, ownerID int32, kind domain.ResourceType, id int32) error {
	if !kind.Valid() {
		return domain.NewError(domain.CodeInvalidRequest, "Invalid resource type")
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var listing domain.Listing
		var err error
		if kind.Rentable() {
			listing, err = repos.Listings.GetRentable(ctx, kind, id, true)
		} else {
			listing, err = repos.Listings.GetProduct(ctx, id, true)
		}
		if err != nil {
			return err
		}
		if listing.SellerID() != ownerID {
			return notOwner("delete", kind)
		}
		if kind.Rentable() {
			if err := checkNotLeased(ctx, repos.Ledger, kind, id, "delete"); err != nil {
				return err
			}
		}
		return repos.Listings.DeleteListing(ctx, kind, id)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Listing deleted", "resource_type", kind, "resource_id", id)
	return nil
}

func reopens(requested *bool, current bool) bool {
	return requested != nil && *requested && !current
}

func checkNotLeased(ctx context.Context, ledger repository.LedgerRepository, kind domain.ResourceType, id int32, action string) error {
	pending, err := ledger.HasPendingLease(ctx, kind, id)
	if err != nil {
		return err
	}
	if pending {
		return domain.NewError(domain.CodeInvalidStateTransition, "Cannot %s %s while it is leased out", action, kind)
	}
	return nil
}

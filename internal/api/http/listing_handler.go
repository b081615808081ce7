package http

import (
	"encoding/json"
	"net/http"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/service"

	"github.com/gorilla/mux"
)

// ListingHandler serves the product, land and equipment catalog.
type ListingHandler struct {
	listingSvc service.ListingService
}

func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc}
}

type messageResponse struct {
	Message string `json:"message"`
}

type productEnvelope struct {
	Message string           `json:"message"`
	Product *ProductResponse `json:"product"`
}

type landEnvelope struct {
	Message string        `json:"message"`
	Land    *LandResponse `json:"land"`
}

type equipmentEnvelope struct {
	Message   string             `json:"message"`
	Equipment *EquipmentResponse `json:"equipment"`
}

// caller returns the authenticated user, writing a 401 when there is none.
func caller(w http.ResponseWriter, r *http.Request) (int32, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "Unauthorized: No token provided")
		return 0, false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request, kind domain.ResourceType) (int32, bool) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, domain.NewError(domain.CodeValidation, "Invalid %s id", kind))
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, r, &domain.Error{Code: domain.CodeInvalidRequest, Message: "Invalid request body", Err: err})
		return false
	}
	return true
}

// CreateProduct handles POST /product/add.
func (h *ListingHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var f service.ProductFields
	if !decodeBody(w, r, &f) {
		return
	}
	p, err := h.listingSvc.CreateProduct(r.Context(), userID, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, productEnvelope{Message: "Product added successfully", Product: MapDomainProductToResponse(p)})
}

// ListProducts handles GET /product/all.
func (h *ListingHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listingSvc.ListProducts(r.Context(), domain.ListingFilter{AvailableOnly: true})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainProductsToResponse(products))
}

// ListMyProducts handles GET /product/my-products.
func (h *ListingHandler) ListMyProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	products, err := h.listingSvc.ListProducts(r.Context(), domain.ListingFilter{OwnerID: userID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainProductsToResponse(products))
}

// GetProduct handles GET /product/{id}.
func (h *ListingHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, domain.ResourceTypeProduct)
	if !ok {
		return
	}
	p, err := h.listingSvc.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainProductToResponse(p))
}

// UpdateProduct handles PATCH /product/update/{id}.
func (h *ListingHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, domain.ResourceTypeProduct)
	if !ok {
		return
	}
	var f service.ProductFields
	if !decodeBody(w, r, &f) {
		return
	}
	p, err := h.listingSvc.UpdateProduct(r.Context(), userID, id, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productEnvelope{Message: "Product updated successfully", Product: MapDomainProductToResponse(p)})
}

// CreateLand handles POST /land/add.
func (h *ListingHandler) CreateLand(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var f service.LandFields
	if !decodeBody(w, r, &f) {
		return
	}
	l, err := h.listingSvc.CreateLand(r.Context(), userID, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, landEnvelope{Message: "Land created successfully", Land: MapDomainLandToResponse(l)})
}

// ListLands handles GET /land/all.
func (h *ListingHandler) ListLands(w http.ResponseWriter, r *http.Request) {
	lands, err := h.listingSvc.ListLands(r.Context(), domain.ListingFilter{AvailableOnly: true})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainLandsToResponse(lands))
}

// ListMyLands handles GET /land/my-lands.
func (h *ListingHandler) ListMyLands(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	lands, err := h.listingSvc.ListLands(r.Context(), domain.ListingFilter{OwnerID: userID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainLandsToResponse(lands))
}

// GetLand handles GET /land/{id}.
func (h *ListingHandler) GetLand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, domain.ResourceTypeLand)
	if !ok {
		return
	}
	l, err := h.listingSvc.GetLand(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainLandToResponse(l))
}

// UpdateLand handles PATCH /land/update/{id}.
func (h *ListingHandler) UpdateLand(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, domain.ResourceTypeLand)
	if !ok {
		return
	}
	var f service.LandFields
	if !decodeBody(w, r, &f) {
		return
	}
	l, err := h.listingSvc.UpdateLand(r.Context(), userID, id, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, landEnvelope{Message: "Land updated successfully", Land: MapDomainLandToResponse(l)})
}

// CreateEquipment handles POST /equipment/add.
func (h *ListingHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	var f service.EquipmentFields
	if !decodeBody(w, r, &f) {
		return
	}
	e, err := h.listingSvc.CreateEquipment(r.Context(), userID, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, equipmentEnvelope{Message: "Equipment added successfully", Equipment: MapDomainEquipmentToResponse(e)})
}

// ListEquipment handles GET /equipment/all.
func (h *ListingHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.listingSvc.ListEquipment(r.Context(), domain.ListingFilter{AvailableOnly: true})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainEquipmentListToResponse(items))
}

// ListMyEquipment handles GET /equipment/my-equipments.
func (h *ListingHandler) ListMyEquipment(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	items, err := h.listingSvc.ListEquipment(r.Context(), domain.ListingFilter{OwnerID: userID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainEquipmentListToResponse(items))
}

// GetEquipment handles GET /equipment/{id}.
func (h *ListingHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, domain.ResourceTypeEquipment)
	if !ok {
		return
	}
	e, err := h.listingSvc.GetEquipment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainEquipmentToResponse(e))
}

// UpdateEquipment handles PATCH /equipment/update/{id}.
func (h *ListingHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, domain.ResourceTypeEquipment)
	if !ok {
		return
	}
	var f service.EquipmentFields
	if !decodeBody(w, r, &f) {
		return
	}
	e, err := h.listingSvc.UpdateEquipment(r.Context(), userID, id, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equipmentEnvelope{Message: "Equipment updated successfully", Equipment: MapDomainEquipmentToResponse(e)})
}

// Delete returns the handler for DELETE /<kind>/delete/{id}.
func (h *ListingHandler) Delete(kind domain.ResourceType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, kind)
		if !ok {
			return
		}
		if err := h.listingSvc.DeleteListing(r.Context(), userID, kind, id); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: displayName(kind) + " deleted successfully"})
	}
}

func displayName(kind domain.ResourceType) string {
	switch kind {
	case domain.ResourceTypeLand:
		return "Land"
	case domain.ResourceTypeEquipment:
		return "Equipment"
	}
	return "Product"
}

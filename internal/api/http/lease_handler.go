package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/service"

	"github.com/gorilla/mux"
)

type LeaseHandler struct {
	leaseSvc  service.LeaseService
	ledgerSvc service.LedgerService
}

func NewLeaseHandler(leaseSvc service.LeaseService, ledgerSvc service.LedgerService) *LeaseHandler {
	return &LeaseHandler{leaseSvc: leaseSvc, ledgerSvc: ledgerSvc}
}

type updateLeaseStatusRequest struct {
	Status string `json:"status"`
}

type leaseStatusResponse struct {
	Message string         `json:"message"`
	Lease   *LeaseResponse `json:"lease"`
}

// ListMine handles GET /lease/my-leases.
func (h *LeaseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "Unauthorized: No token provided")
		return
	}

	leases, err := h.ledgerSvc.ListMyLeases(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainLeasesToResponse(leases))
}

// UpdateStatus handles PATCH /lease/update-status/{id}.
func (h *LeaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "Unauthorized: No token provided")
		return
	}

	leaseID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, domain.NewError(domain.CodeValidation, "Invalid lease id"))
		return
	}

	var body updateLeaseStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, r, &domain.Error{Code: domain.CodeInvalidRequest, Message: "Invalid request body", Err: err})
		return
	}

	status := domain.LeaseStatus(strings.ToLower(strings.TrimSpace(body.Status)))
	lease, err := h.leaseSvc.UpdateLeaseStatus(r.Context(), userID, leaseID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaseStatusResponse{
		Message: "Lease status updated",
		Lease:   MapDomainLeaseToResponse(lease),
	})
}

// ListAll handles GET /lease/all for administrators.
func (h *LeaseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	leases, err := h.leaseSvc.ListAllLeases(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainLeasesToResponse(leases))
}

// Delete handles DELETE /lease/delete/{id} for administrators.
func (h *LeaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	leaseID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, domain.NewError(domain.CodeValidation, "Invalid lease id"))
		return
	}
	if err := h.leaseSvc.DeleteLease(r.Context(), leaseID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Lease deleted successfully"})
}

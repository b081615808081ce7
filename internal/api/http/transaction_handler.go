package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type TransactionHandler struct {
	settlementSvc service.SettlementService
	ledgerSvc     service.LedgerService
}

func NewTransactionHandler(settlementSvc service.SettlementService, ledgerSvc service.LedgerService) *TransactionHandler {
	return &TransactionHandler{settlementSvc: settlementSvc, ledgerSvc: ledgerSvc}
}

type createTransactionRequest struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	PaymentMethod   string           `json:"payment_method"`
	TransactionType string           `json:"transaction_type"`
}

type buyResponse struct {
	Message           string               `json:"message"`
	Transaction       *TransactionResponse `json:"transaction"`
	RemainingQuantity string               `json:"remaining_quantity"`
}

type rentResponse struct {
	Message     string               `json:"message"`
	Lease       *LeaseResponse       `json:"lease"`
	Transaction *TransactionResponse `json:"transaction"`
}

type listTransactionsResponse struct {
	Message      string                 `json:"message"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// Create handles POST /transaction/create/{resource_type}/{resource_id}.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "Unauthorized: No token provided")
		return
	}

	vars := mux.Vars(r)
	resourceID, err := parseID(vars["resource_id"])
	if err != nil {
		writeError(w, r, domain.NewError(domain.CodeValidation, "Invalid resource id"))
		return
	}

	var body createTransactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, r, &domain.Error{Code: domain.CodeInvalidRequest, Message: "Invalid request body", Err: err})
		return
	}

	req := service.SettlementRequest{
		CallerID:        userID,
		ResourceType:    domain.ResourceType(strings.ToLower(vars["resource_type"])),
		ResourceID:      resourceID,
		TransactionType: domain.TransactionType(strings.ToLower(strings.TrimSpace(body.TransactionType))),
		StartDate:       body.StartDate,
		EndDate:         body.EndDate,
		PaymentMethod:   body.PaymentMethod,
	}
	if body.Quantity != nil {
		req.Quantity = *body.Quantity
	}

	res, err := h.settlementSvc.Settle(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.Lease != nil {
		writeJSON(w, http.StatusCreated, rentResponse{
			Message:     string(req.ResourceType) + " rented successfully",
			Lease:       MapDomainLeaseToResponse(res.Lease),
			Transaction: MapDomainTransactionToResponse(res.Transaction),
		})
		return
	}

	resp := buyResponse{
		Message:     "Product purchased successfully",
		Transaction: MapDomainTransactionToResponse(res.Transaction),
	}
	if res.RemainingQuantity != nil {
		resp.RemainingQuantity = formatQuantity(*res.RemainingQuantity)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListMine handles GET /transaction/my.
func (h *TransactionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "Unauthorized: No token provided")
		return
	}

	txs, err := h.ledgerSvc.ListMyTransactions(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listTransactionsResponse{
		Message:      "Your transactions fetched successfully",
		Transactions: MapDomainTransactionsToResponse(txs),
	})
}

func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return int32(id), nil
}

package http

import (
	"net/http"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/service"
)

type UserHandler struct {
	ledgerSvc service.LedgerService
}

func NewUserHandler(ledgerSvc service.LedgerService) *UserHandler {
	return &UserHandler{ledgerSvc: ledgerSvc}
}

type balanceResponse struct {
	UserID  int32  `json:"user_id"`
	Balance string `json:"balance"`
}

// GetBalance handles GET /user/balance.
func (h *UserHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "Unauthorized: No token provided")
		return
	}

	balance, err := h.ledgerSvc.GetBalance(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: domain.FormatMoney(balance)})
}

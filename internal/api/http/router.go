package http

import (
	"context"
	"net/http"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/metrics"

	"github.com/gorilla/mux"
)

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Transactions *TransactionHandler
	Leases       *LeaseHandler
	Listings     *ListingHandler
	Users        *UserHandler
}

// HealthCheck reports whether the service's dependencies are reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter registers every route with request logging, metrics and
// authentication applied in that order.
func NewRouter(h Handlers, auth *AuthMiddleware, health HealthCheck) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger, metrics.InstrumentHandler, auth.Handler)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthHandler(health)).Methods(http.MethodGet)

	router.HandleFunc("/product/add", h.Listings.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/product/all", h.Listings.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/product/my-products", h.Listings.ListMyProducts).Methods(http.MethodGet)
	router.HandleFunc("/product/{id:[0-9]+}", h.Listings.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/product/update/{id}", h.Listings.UpdateProduct).Methods(http.MethodPatch)
	router.HandleFunc("/product/delete/{id}", h.Listings.Delete(domain.ResourceTypeProduct)).Methods(http.MethodDelete)

	router.HandleFunc("/land/add", h.Listings.CreateLand).Methods(http.MethodPost)
	router.HandleFunc("/land/all", h.Listings.ListLands).Methods(http.MethodGet)
	router.HandleFunc("/land/my-lands", h.Listings.ListMyLands).Methods(http.MethodGet)
	router.HandleFunc("/land/{id:[0-9]+}", h.Listings.GetLand).Methods(http.MethodGet)
	router.HandleFunc("/land/update/{id}", h.Listings.UpdateLand).Methods(http.MethodPatch)
	router.HandleFunc("/land/delete/{id}", h.Listings.Delete(domain.ResourceTypeLand)).Methods(http.MethodDelete)

	router.HandleFunc("/equipment/add", h.Listings.CreateEquipment).Methods(http.MethodPost)
	router.HandleFunc("/equipment/all", h.Listings.ListEquipment).Methods(http.MethodGet)
	router.HandleFunc("/equipment/my-equipments", h.Listings.ListMyEquipment).Methods(http.MethodGet)
	router.HandleFunc("/equipment/{id:[0-9]+}", h.Listings.GetEquipment).Methods(http.MethodGet)
	router.HandleFunc("/equipment/update/{id}", h.Listings.UpdateEquipment).Methods(http.MethodPatch)
	router.HandleFunc("/equipment/delete/{id}", h.Listings.Delete(domain.ResourceTypeEquipment)).Methods(http.MethodDelete)

	router.HandleFunc("/transaction/create/{resource_type}/{resource_id}", h.Transactions.Create).Methods(http.MethodPost)
	router.HandleFunc("/transaction/my", h.Transactions.ListMine).Methods(http.MethodGet)

	router.HandleFunc("/lease/my-leases", h.Leases.ListMine).Methods(http.MethodGet)
	router.HandleFunc("/lease/update-status/{id}", h.Leases.UpdateStatus).Methods(http.MethodPatch)
	router.HandleFunc("/lease/all", h.Leases.ListAll).Methods(http.MethodGet)
	router.HandleFunc("/lease/delete/{id}", h.Leases.Delete).Methods(http.MethodDelete)

	router.HandleFunc("/user/balance", h.Users.GetBalance).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Route not found", Code: "NOT_FOUND"})
	})
	return router
}

func healthHandler(check HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

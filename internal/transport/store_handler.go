package transport

import (
	"net/http"

	"freshcart/internal/middleware"
	"freshcart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StoreHandler handles HTTP requests for physical stores
type StoreHandler struct {
	storeService service.StoreService
	logger       *zap.Logger
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService service.StoreService, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		logger:       logger,
	}
}

// RegisterRoutes registers all store routes
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/stores", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}

// List returns all stores
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.storeService.List(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "stores retrieved", stores)
}

// Get returns one store
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid store id")
		return
	}

	store, err := h.storeService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "store retrieved", store)
}

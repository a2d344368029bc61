package transport

import (
	"net/http"

	"freshcart/internal/middleware"
	"freshcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateStoreAdminRequest represents the store admin creation payload
type CreateStoreAdminRequest struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8"`
	StoreID  uuid.UUID `json:"store_id" validate:"required"`
}

// UpdateStoreAdminRequest represents the store admin update payload; absent
// fields keep their current value
type UpdateStoreAdminRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Password *string    `json:"password" validate:"omitempty,min=8"`
	StoreID  *uuid.UUID `json:"store_id"`
}

// AdminHandler handles HTTP requests for administrator accounts
type AdminHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers all admin routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin, requireSuperAdmin, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(requireAdmin)
			r.Get("/profile", h.Profile)

			r.Group(func(r chi.Router) {
				r.Use(requireSuperAdmin)
				r.Get("/users", h.ListUsers)
				r.Get("/store-admins", h.ListStoreAdmins)
				r.Post("/store-admins", h.CreateStoreAdmin)
				r.Put("/store-admins/{id}", h.UpdateStoreAdmin)
				r.Delete("/store-admins/{id}", h.DeleteStoreAdmin)
			})
		})
	})
}

// Login handles admin authentication
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Admin login validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, admin, err := h.adminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Admin logged in",
		zap.String("admin_id", admin.ID.String()),
		zap.Bool("is_super", admin.IsSuper),
	)
	respondData(w, http.StatusOK, "login successful", LoginResponse{Token: token, User: admin})
}

// Profile returns the authenticated admin's account
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	admin, err := h.adminService.Profile(r.Context(), adminID)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "profile retrieved", admin)
}

// ListUsers returns every customer with their addresses
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "users retrieved", users)
}

// ListStoreAdmins returns every store admin with their store
func (h *AdminHandler) ListStoreAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.ListStoreAdmins(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "store admins retrieved", admins)
}

// CreateStoreAdmin adds a store admin
func (h *AdminHandler) CreateStoreAdmin(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreAdminRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Store admin creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.adminService.CreateStoreAdmin(r.Context(), service.StoreAdminCreate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		StoreID:  req.StoreID,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Store admin created", zap.String("admin_id", admin.ID.String()))
	respondData(w, http.StatusCreated, "store admin created", admin)
}

// UpdateStoreAdmin changes a store admin
func (h *AdminHandler) UpdateStoreAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	var req UpdateStoreAdminRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Store admin update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.adminService.UpdateStoreAdmin(r.Context(), id, service.StoreAdminUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		StoreID:  req.StoreID,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "store admin updated", admin)
}

// DeleteStoreAdmin soft-deletes a store admin
func (h *AdminHandler) DeleteStoreAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	if err := h.adminService.DeleteStoreAdmin(r.Context(), id); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Store admin deleted", zap.String("admin_id", id.String()))
	respondData(w, http.StatusOK, "store admin deleted", nil)
}

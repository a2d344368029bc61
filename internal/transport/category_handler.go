package transport

import (
	"net/http"

	"freshcart/internal/middleware"
	"freshcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest represents the category update payload; absent
// fields keep their current value
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryHandler handles HTTP requests for product categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers public and admin category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin, requireSuperAdmin func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireAdmin)
		r.Use(requireSuperAdmin)
		r.Get("/", h.ListForAdmin)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/toggle", h.ToggleStatus)
	})
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// List returns all active categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "categories retrieved", categories)
}

// ListForAdmin returns all categories, inactive included
func (h *CategoryHandler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListForAdmin(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "categories retrieved", categories)
}

// Get returns one category
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "category retrieved", category)
}

// Create adds a category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	respondData(w, http.StatusCreated, "category created", category)
}

// Update changes a category
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req UpdateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "category updated", category)
}

// Delete soft-deletes a category
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	respondData(w, http.StatusOK, "category deleted", nil)
}

// ToggleStatus flips a category's active flag
func (h *CategoryHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.categoryService.ToggleStatus(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "category status updated", category)
}

package transport

import (
	"net/http"
	"strconv"

	"freshcart/internal/middleware"
	"freshcart/internal/repository"
	"freshcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Weight      *float64  `json:"weight" validate:"omitempty,gt=0"`
	Picture1    string    `json:"picture_1" validate:"required,url"`
	Picture2    *string   `json:"picture_2" validate:"omitempty,url"`
	Picture3    *string   `json:"picture_3" validate:"omitempty,url"`
	Picture4    *string   `json:"picture_4" validate:"omitempty,url"`
}

// UpdateProductRequest represents the product update payload; absent fields
// keep their current value
type UpdateProductRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Price       *float64   `json:"price" validate:"omitempty,gt=0"`
	Weight      *float64   `json:"weight" validate:"omitempty,gt=0"`
	Picture1    *string    `json:"picture_1" validate:"omitempty,url"`
	Picture2    *string    `json:"picture_2" validate:"omitempty,url"`
	Picture3    *string    `json:"picture_3" validate:"omitempty,url"`
	Picture4    *string    `json:"picture_4" validate:"omitempty,url"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateStockRequest represents the per-store stock update payload
type UpdateStockRequest struct {
	StoreID uuid.UUID `json:"store_id" validate:"required"`
	Stock   *int      `json:"stock" validate:"required,gte=0"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers public and admin product routes. Stock updates
// only need the admin role; store scoping happens in the service.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin, requireSuperAdmin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/slug/{slug}", h.GetBySlug)
		r.Get("/{id}", h.Get)
	})

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireAdmin)

		r.Get("/", h.ListForAdmin)
		r.Put("/{id}/stock", h.UpdateStock)

		r.Group(func(r chi.Router) {
			r.Use(requireSuperAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Patch("/{id}/toggle", h.ToggleStatus)
		})
	})
}

func (h *ProductHandler) parseFilters(r *http.Request) (repository.ProductFilters, int, int) {
	query := r.URL.Query()
	filters := repository.ProductFilters{Search: query.Get("search")}

	if raw := query.Get("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.CategoryID = &id
		}
	}
	if raw := query.Get("store_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.StoreID = &id
		}
	}
	if raw := query.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MinPrice = &v
		}
	}
	if raw := query.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MaxPrice = &v
		}
	}

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	return filters, page, limit
}

// List returns one page of active products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, page, limit := h.parseFilters(r)

	result, err := h.productService.List(r.Context(), filters, page, limit)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "products retrieved", result)
}

// ListForAdmin returns one page of products including inactive ones. An
// explicit is_active param narrows to one status; store_id narrows to
// products stocked at one store.
func (h *ProductHandler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	filters, page, limit := h.parseFilters(r)
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &v
		}
	}

	result, err := h.productService.ListForAdmin(r.Context(), filters, page, limit)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "products retrieved", result)
}

// Get returns one product with its per-store stock
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "product retrieved", product)
}

// GetBySlug returns one active product by slug
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.productService.GetBySlug(r.Context(), slug)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, "product retrieved", product)
}

// Create adds a product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), service.ProductCreate{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Weight:      req.Weight,
		Picture1:    req.Picture1,
		Picture2:    req.Picture2,
		Picture3:    req.Picture3,
		Picture4:    req.Picture4,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	respondData(w, http.StatusCreated, "product created", product)
}

// Update changes a product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), id, service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Weight:      req.Weight,
		Picture1:    req.Picture1,
		Picture2:    req.Picture2,
		Picture3:    req.Picture3,
		Picture4:    req.Picture4,
		IsActive:    req.IsActive,
	})
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "product updated", product)
}

// Delete soft-deletes a product and its stock records
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	respondData(w, http.StatusOK, "product deleted", nil)
}

// ToggleStatus flips a product's active flag
func (h *ProductHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.ToggleStatus(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "product status updated", product)
}

// UpdateStock sets the stock figure for a (store, product) pair
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID, err := parseIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Stock update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.productService.UpdateStock(r.Context(), adminID, req.StoreID, productID, *req.Stock)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Stock updated",
		zap.String("product_id", productID.String()),
		zap.String("store_id", req.StoreID.String()),
		zap.Int("stock", *req.Stock),
	)
	respondData(w, http.StatusOK, "stock updated", record)
}

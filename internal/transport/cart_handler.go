package transport

import (
	"net/http"

	"freshcart/internal/middleware"
	"freshcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart request payload
type AddToCartRequest struct {
	StoreID   uuid.UUID `json:"store_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// UpdateCartRequest represents the cart quantity update payload
type UpdateCartRequest struct {
	StoreID   uuid.UUID `json:"store_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"required,gte=0"`
}

// CartHandler handles HTTP requests for the customer's cart
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware, requireUser func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireUser)
		r.Get("/count", h.GetCount)
		r.Get("/user", h.GetCart)
		r.Post("/add", h.AddProduct)
		r.Put("/update", h.UpdateQuantity)
	})
}

// GetCount returns the number of lines in the customer's cart
func (h *CartHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.cartService.GetCartCount(r.Context(), userID)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "cart count retrieved", map[string]int{"count": count})
}

// GetCart returns the customer's cart with its lines and products
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cart, err := h.cartService.GetUserCart(r.Context(), userID)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "cart retrieved", cart)
}

// AddProduct puts one unit of a product into the customer's cart
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, err := h.cartService.AddProduct(r.Context(), userID, req.StoreID, req.ProductID)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	h.logger.Info("Product added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", req.ProductID.String()),
	)
	respondData(w, http.StatusOK, "product added to cart", line)
}

// UpdateQuantity sets the quantity of a cart line; zero removes it
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, err := h.cartService.UpdateQuantity(r.Context(), userID, req.StoreID, req.ProductID, *req.Quantity)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	message := "cart item updated"
	if *req.Quantity == 0 {
		message = "cart item removed"
	}
	respondData(w, http.StatusOK, message, line)
}

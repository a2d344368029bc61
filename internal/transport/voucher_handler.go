package transport

import (
	"net/http"
	"strconv"

	"freshcart/internal/middleware"
	"freshcart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VoucherHandler handles HTTP requests for discount vouchers
type VoucherHandler struct {
	voucherService service.VoucherService
	logger         *zap.Logger
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService service.VoucherService, logger *zap.Logger) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
		logger:         logger,
	}
}

// RegisterRoutes registers all voucher routes
func (h *VoucherHandler) RegisterRoutes(r chi.Router, authMiddleware, requireUser func(http.Handler) http.Handler) {
	r.Route("/api/vouchers", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireUser)
		r.Get("/product/{code}", h.RedeemProduct)
		r.Get("/delivery/{code}", h.RedeemDelivery)
	})
}

func (h *VoucherHandler) redeem(w http.ResponseWriter, r *http.Request, voucherType string) {
	code := chi.URLParam(r, "code")

	total := 0.0
	if raw := r.URL.Query().Get("total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase total")
			return
		}
		total = v
	}

	result, err := h.voucherService.Redeem(r.Context(), voucherType, code, total)
	if err != nil {
		middleware.RespondWithAppError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, "voucher valid", result)
}

// RedeemProduct validates a product voucher against a purchase total
func (h *VoucherHandler) RedeemProduct(w http.ResponseWriter, r *http.Request) {
	h.redeem(w, r, "product")
}

// RedeemDelivery validates a delivery voucher against a purchase total
func (h *VoucherHandler) RedeemDelivery(w http.ResponseWriter, r *http.Request) {
	h.redeem(w, r, "delivery")
}

package service

import (
	"context"
	"strings"
	"time"

	"freshcart/internal/apperror"
	"freshcart/internal/repository"
)

// VoucherResult is the outcome of redeeming a voucher code against a
// purchase total
type VoucherResult struct {
	Code           string  `json:"code"`
	Type           string  `json:"type"`
	DiscountAmount float64 `json:"discount_amount"`
	MinPurchase    float64 `json:"min_purchase"`
}

// VoucherService defines the business logic for discount vouchers
type VoucherService interface {
	Redeem(ctx context.Context, voucherType, code string, purchaseTotal float64) (*VoucherResult, error)
}

type voucherService struct {
	voucherRepo repository.VoucherRepository
}

// NewVoucherService creates a new instance of VoucherService
func NewVoucherService(voucherRepo repository.VoucherRepository) VoucherService {
	return &voucherService{voucherRepo: voucherRepo}
}

// Redeem looks up a voucher by code, rejecting expired codes and purchases
// below the voucher's minimum
func (s *voucherService) Redeem(ctx context.Context, voucherType, code string, purchaseTotal float64) (*VoucherResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperror.Invalid("voucher code is required")
	}

	var result *VoucherResult
	switch voucherType {
	case "product":
		voucher, err := s.voucherRepo.FindProductVoucherByCode(ctx, nil, code)
		if err != nil {
			if err == repository.ErrVoucherNotFound {
				return nil, apperror.NotFound("voucher not found")
			}
			return nil, apperror.Internal(err)
		}
		if time.Now().After(voucher.ExpiresAt) {
			return nil, apperror.Invalid("voucher has expired")
		}
		if purchaseTotal < voucher.MinPurchase {
			return nil, apperror.Invalid("purchase total is below the voucher minimum")
		}
		result = &VoucherResult{
			Code:           voucher.Code,
			Type:           "product",
			DiscountAmount: voucher.DiscountAmount,
			MinPurchase:    voucher.MinPurchase,
		}
	case "delivery":
		voucher, err := s.voucherRepo.FindDeliveryVoucherByCode(ctx, nil, code)
		if err != nil {
			if err == repository.ErrVoucherNotFound {
				return nil, apperror.NotFound("voucher not found")
			}
			return nil, apperror.Internal(err)
		}
		if time.Now().After(voucher.ExpiresAt) {
			return nil, apperror.Invalid("voucher has expired")
		}
		if purchaseTotal < voucher.MinPurchase {
			return nil, apperror.Invalid("purchase total is below the voucher minimum")
		}
		result = &VoucherResult{
			Code:           voucher.Code,
			Type:           "delivery",
			DiscountAmount: voucher.DiscountAmount,
			MinPurchase:    voucher.MinPurchase,
		}
	default:
		return nil, apperror.Invalid("voucher type must be product or delivery")
	}

	return result, nil
}

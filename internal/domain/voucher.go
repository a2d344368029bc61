package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoucherProduct is a discount voucher applied to product totals
type VoucherProduct struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Code           string     `json:"code" db:"code"`
	DiscountAmount float64    `json:"discount_amount" db:"discount_amount"`
	MinPurchase    float64    `json:"min_purchase" db:"min_purchase"`
	ExpiresAt      time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// VoucherDelivery is a discount voucher applied to delivery fees
type VoucherDelivery struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Code           string     `json:"code" db:"code"`
	DiscountAmount float64    `json:"discount_amount" db:"discount_amount"`
	MinPurchase    float64    `json:"min_purchase" db:"min_purchase"`
	ExpiresAt      time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

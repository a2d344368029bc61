package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshcart/internal/domain"
)

var ErrVoucherNotFound = errors.New("voucher not found")

// VoucherRepository defines the interface for voucher lookups
type VoucherRepository interface {
	FindProductVoucherByCode(ctx context.Context, q DBTX, code string) (*domain.VoucherProduct, error)
	FindDeliveryVoucherByCode(ctx context.Context, q DBTX, code string) (*domain.VoucherDelivery, error)
}

type voucherRepository struct {
	db *sql.DB
}

// NewVoucherRepository creates a new instance of VoucherRepository
func NewVoucherRepository(db *sql.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// FindProductVoucherByCode retrieves a live product voucher by code
func (r *voucherRepository) FindProductVoucherByCode(ctx context.Context, q DBTX, code string) (*domain.VoucherProduct, error) {
	query := `
		SELECT id, code, discount_amount, min_purchase, expires_at, created_at, updated_at
		FROM voucher_products
		WHERE code = $1 AND deleted_at IS NULL
	`

	voucher := &domain.VoucherProduct{}
	err := r.q(q).QueryRowContext(ctx, query, code).Scan(
		&voucher.ID,
		&voucher.Code,
		&voucher.DiscountAmount,
		&voucher.MinPurchase,
		&voucher.ExpiresAt,
		&voucher.CreatedAt,
		&voucher.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("failed to find product voucher: %w", err)
	}

	return voucher, nil
}

// FindDeliveryVoucherByCode retrieves a live delivery voucher by code
func (r *voucherRepository) FindDeliveryVoucherByCode(ctx context.Context, q DBTX, code string) (*domain.VoucherDelivery, error) {
	query := `
		SELECT id, code, discount_amount, min_purchase, expires_at, created_at, updated_at
		FROM voucher_deliveries
		WHERE code = $1 AND deleted_at IS NULL
	`

	voucher := &domain.VoucherDelivery{}
	err := r.q(q).QueryRowContext(ctx, query, code).Scan(
		&voucher.ID,
		&voucher.Code,
		&voucher.DiscountAmount,
		&voucher.MinPurchase,
		&voucher.ExpiresAt,
		&voucher.CreatedAt,
		&voucher.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("failed to find delivery voucher: %w", err)
	}

	return voucher, nil
}

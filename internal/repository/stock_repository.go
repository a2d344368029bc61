package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshcart/internal/domain"

	"github.com/google/uuid"
)

var ErrStockNotFound = errors.New("stock record not found")

// StockRepository manages per-store stock records. The cart core only reads
// them; store admins mutate them through Upsert.
type StockRepository interface {
	FindByStoreAndProduct(ctx context.Context, q DBTX, storeID, productID uuid.UUID) (*domain.StoreProduct, error)
	ListByProduct(ctx context.Context, q DBTX, productID uuid.UUID) ([]*domain.StoreProduct, error)
	Upsert(ctx context.Context, q DBTX, stock *domain.StoreProduct) (*domain.StoreProduct, error)
	SoftDeleteByProduct(ctx context.Context, q DBTX, productID uuid.UUID) error
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// FindByStoreAndProduct retrieves the live stock record for a (store, product) pair
func (r *stockRepository) FindByStoreAndProduct(ctx context.Context, q DBTX, storeID, productID uuid.UUID) (*domain.StoreProduct, error) {
	query := `
		SELECT id, store_id, product_id, stock, created_at, updated_at
		FROM store_products
		WHERE store_id = $1 AND product_id = $2 AND deleted_at IS NULL
	`

	sp := &domain.StoreProduct{}
	err := r.q(q).QueryRowContext(ctx, query, storeID, productID).Scan(
		&sp.ID,
		&sp.StoreID,
		&sp.ProductID,
		&sp.Stock,
		&sp.CreatedAt,
		&sp.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to find stock record: %w", err)
	}

	return sp, nil
}

// ListByProduct retrieves all live stock records for a product, with the
// owning store's summary
func (r *stockRepository) ListByProduct(ctx context.Context, q DBTX, productID uuid.UUID) ([]*domain.StoreProduct, error) {
	query := `
		SELECT sp.id, sp.store_id, sp.product_id, sp.stock, sp.created_at, sp.updated_at,
		       s.id, s.name, s.city, s.province
		FROM store_products sp
		JOIN stores s ON s.id = sp.store_id AND s.deleted_at IS NULL
		WHERE sp.product_id = $1 AND sp.deleted_at IS NULL
		ORDER BY s.name ASC
	`

	rows, err := r.q(q).QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock records: %w", err)
	}
	defer rows.Close()

	stocks := []*domain.StoreProduct{}
	for rows.Next() {
		sp := &domain.StoreProduct{Store: &domain.StoreSummary{}}
		err := rows.Scan(
			&sp.ID,
			&sp.StoreID,
			&sp.ProductID,
			&sp.Stock,
			&sp.CreatedAt,
			&sp.UpdatedAt,
			&sp.Store.ID,
			&sp.Store.Name,
			&sp.Store.City,
			&sp.Store.Province,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock record: %w", err)
		}
		stocks = append(stocks, sp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock records: %w", err)
	}

	return stocks, nil
}

// Upsert sets the stock figure for a (store, product) pair, creating the
// record on first use
func (r *stockRepository) Upsert(ctx context.Context, q DBTX, stock *domain.StoreProduct) (*domain.StoreProduct, error) {
	existing, err := r.FindByStoreAndProduct(ctx, q, stock.StoreID, stock.ProductID)
	if err != nil && err != ErrStockNotFound {
		return nil, err
	}

	if existing != nil {
		query := `
			UPDATE store_products
			SET stock = $2
			WHERE id = $1 AND deleted_at IS NULL
		`
		if _, err := r.q(q).ExecContext(ctx, query, existing.ID, stock.Stock); err != nil {
			return nil, fmt.Errorf("failed to update stock record: %w", err)
		}
		existing.Stock = stock.Stock
		return existing, nil
	}

	query := `
		INSERT INTO store_products (id, store_id, product_id, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.q(q).ExecContext(
		ctx,
		query,
		stock.ID,
		stock.StoreID,
		stock.ProductID,
		stock.Stock,
		stock.CreatedAt,
		stock.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock record: %w", err)
	}
	return stock, nil
}

// SoftDeleteByProduct marks every stock record of a product as deleted,
// used when the product itself is soft-deleted
func (r *stockRepository) SoftDeleteByProduct(ctx context.Context, q DBTX, productID uuid.UUID) error {
	query := `
		UPDATE store_products
		SET deleted_at = NOW()
		WHERE product_id = $1 AND deleted_at IS NULL
	`

	if _, err := r.q(q).ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("failed to delete stock records: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshcart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineNotFound = errors.New("cart item not found")
)

// CartRepository defines the data access surface of the cart core. Every
// read helper filters soft-deleted rows by construction; callers never apply
// the deleted_at predicate themselves.
type CartRepository interface {
	WithTx(ctx context.Context, fn func(q DBTX) error) error
	CreateCart(ctx context.Context, q DBTX, cart *domain.Cart) error
	FindCartByUserID(ctx context.Context, q DBTX, userID uuid.UUID) (*domain.Cart, error)
	CountLines(ctx context.Context, q DBTX, cartID uuid.UUID) (int, error)
	ListLines(ctx context.Context, q DBTX, cartID uuid.UUID) ([]*domain.CartLine, error)
	FindLine(ctx context.Context, q DBTX, cartID, productID, storeID uuid.UUID) (*domain.CartLine, error)
	InsertLine(ctx context.Context, q DBTX, line *domain.CartLine) error
	UpdateLineQuantity(ctx context.Context, q DBTX, lineID uuid.UUID, quantity int) error
	SoftDeleteLine(ctx context.Context, q DBTX, cartID, productID, storeID uuid.UUID) (*domain.CartLine, error)
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// q falls back to the pool when the caller does not supply a transaction
func (r *cartRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// WithTx scopes fn inside one database transaction
func (r *cartRepository) WithTx(ctx context.Context, fn func(q DBTX) error) error {
	return WithTx(ctx, r.db, fn)
}

// CreateCart inserts a new empty cart for a user
func (r *cartRepository) CreateCart(ctx context.Context, q DBTX, cart *domain.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q(q).ExecContext(ctx, query, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// FindCartByUserID retrieves the user's live cart, oldest first
func (r *cartRepository) FindCartByUserID(ctx context.Context, q DBTX, userID uuid.UUID) (*domain.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT 1
	`

	cart := &domain.Cart{}
	err := r.q(q).QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart by user ID: %w", err)
	}

	return cart, nil
}

// CountLines returns the number of live lines in a cart
func (r *cartRepository) CountLines(ctx context.Context, q DBTX, cartID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM cart_products
		WHERE cart_id = $1 AND deleted_at IS NULL
	`

	var count int
	if err := r.q(q).QueryRowContext(ctx, query, cartID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cart lines: %w", err)
	}
	return count, nil
}

// ListLines retrieves the live lines of a cart joined with product details
func (r *cartRepository) ListLines(ctx context.Context, q DBTX, cartID uuid.UUID) ([]*domain.CartLine, error) {
	query := `
		SELECT cp.id, cp.cart_id, cp.product_id, cp.store_id, cp.quantity,
		       cp.created_at, cp.updated_at,
		       p.id, p.name, p.slug, p.description, p.category_id, p.price,
		       p.weight, p.picture1, p.picture2, p.picture3, p.picture4,
		       p.is_active, p.created_at, p.updated_at
		FROM cart_products cp
		JOIN products p ON p.id = cp.product_id AND p.deleted_at IS NULL
		WHERE cp.cart_id = $1 AND cp.deleted_at IS NULL
		ORDER BY cp.created_at ASC
	`

	rows, err := r.q(q).QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	lines := []*domain.CartLine{}
	for rows.Next() {
		line := &domain.CartLine{Product: &domain.Product{}}
		err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.StoreID,
			&line.Quantity,
			&line.CreatedAt,
			&line.UpdatedAt,
			&line.Product.ID,
			&line.Product.Name,
			&line.Product.Slug,
			&line.Product.Description,
			&line.Product.CategoryID,
			&line.Product.Price,
			&line.Product.Weight,
			&line.Product.Picture1,
			&line.Product.Picture2,
			&line.Product.Picture3,
			&line.Product.Picture4,
			&line.Product.IsActive,
			&line.Product.CreatedAt,
			&line.Product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// FindLine retrieves the live line identified by (cartID, productID, storeID)
func (r *cartRepository) FindLine(ctx context.Context, q DBTX, cartID, productID, storeID uuid.UUID) (*domain.CartLine, error) {
	query := `
		SELECT id, cart_id, product_id, store_id, quantity, created_at, updated_at
		FROM cart_products
		WHERE cart_id = $1 AND product_id = $2 AND store_id = $3 AND deleted_at IS NULL
	`

	line := &domain.CartLine{}
	err := r.q(q).QueryRowContext(ctx, query, cartID, productID, storeID).Scan(
		&line.ID,
		&line.CartID,
		&line.ProductID,
		&line.StoreID,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to find cart line: %w", err)
	}

	return line, nil
}

// InsertLine inserts a new cart line
func (r *cartRepository) InsertLine(ctx context.Context, q DBTX, line *domain.CartLine) error {
	query := `
		INSERT INTO cart_products (id, cart_id, product_id, store_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q(q).ExecContext(
		ctx,
		query,
		line.ID,
		line.CartID,
		line.ProductID,
		line.StoreID,
		line.Quantity,
		line.CreatedAt,
		line.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}
	return nil
}

// UpdateLineQuantity sets the quantity of a live line
func (r *cartRepository) UpdateLineQuantity(ctx context.Context, q DBTX, lineID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_products
		SET quantity = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(ctx, query, lineID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart line quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// SoftDeleteLine marks the line identified by (cartID, productID, storeID) as
// deleted and returns its last state
func (r *cartRepository) SoftDeleteLine(ctx context.Context, q DBTX, cartID, productID, storeID uuid.UUID) (*domain.CartLine, error) {
	query := `
		UPDATE cart_products
		SET deleted_at = NOW()
		WHERE cart_id = $1 AND product_id = $2 AND store_id = $3 AND deleted_at IS NULL
		RETURNING id, cart_id, product_id, store_id, quantity, created_at, updated_at, deleted_at
	`

	line := &domain.CartLine{}
	err := r.q(q).QueryRowContext(ctx, query, cartID, productID, storeID).Scan(
		&line.ID,
		&line.CartID,
		&line.ProductID,
		&line.StoreID,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
		&line.DeletedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to delete cart line: %w", err)
	}

	return line, nil
}

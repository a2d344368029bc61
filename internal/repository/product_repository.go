package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshcart/internal/domain"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// ProductFilters narrows product listings. Nil fields are ignored. StoreID
// restricts the listing to products carrying a live stock record at that
// store.
type ProductFilters struct {
	Search     string
	CategoryID *uuid.UUID
	StoreID    *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	IsActive   *bool
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	WithTx(ctx context.Context, fn func(q DBTX) error) error
	Create(ctx context.Context, q DBTX, product *domain.Product) error
	Update(ctx context.Context, q DBTX, product *domain.Product) error
	SoftDelete(ctx context.Context, q DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, q DBTX, slug string) (*domain.Product, error)
	NameExists(ctx context.Context, q DBTX, name string, excludeID *uuid.UUID) (bool, error)
	SlugExists(ctx context.Context, q DBTX, slug string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, q DBTX, filters ProductFilters, page, limit int) ([]*domain.Product, int, error)
	CountInLiveCarts(ctx context.Context, q DBTX, productID uuid.UUID) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// WithTx scopes fn inside one database transaction
func (r *productRepository) WithTx(ctx context.Context, fn func(q DBTX) error) error {
	return WithTx(ctx, r.db, fn)
}

const productColumns = `id, name, slug, description, category_id, price, weight,
	picture1, picture2, picture3, picture4, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.CategoryID,
		&p.Price,
		&p.Weight,
		&p.Picture1,
		&p.Picture2,
		&p.Picture3,
		&p.Picture4,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, q DBTX, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, category_id, price, weight,
			picture1, picture2, picture3, picture4, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q(q).ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.CategoryID,
		product.Price,
		product.Weight,
		product.Picture1,
		product.Picture2,
		product.Picture3,
		product.Picture4,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a live product
func (r *productRepository) Update(ctx context.Context, q DBTX, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, category_id = $5, price = $6,
		    weight = $7, picture1 = $8, picture2 = $9, picture3 = $10,
		    picture4 = $11, is_active = $12
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.CategoryID,
		product.Price,
		product.Weight,
		product.Picture1,
		product.Picture2,
		product.Picture3,
		product.Picture4,
		product.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SoftDelete marks a product as deleted
func (r *productRepository) SoftDelete(ctx context.Context, q DBTX, id uuid.UUID) error {
	query := `
		UPDATE products
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// FindByID retrieves a live product with its category summary
func (r *productRepository) FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`, productColumns)

	product := &domain.Product{}
	if err := scanProduct(r.q(q).QueryRowContext(ctx, query, id), product); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if err := r.attachCategory(ctx, q, product); err != nil {
		return nil, err
	}
	return product, nil
}

// FindBySlug retrieves a live, active product by slug
func (r *productRepository) FindBySlug(ctx context.Context, q DBTX, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE slug = $1 AND deleted_at IS NULL AND is_active = TRUE
	`, productColumns)

	product := &domain.Product{}
	if err := scanProduct(r.q(q).QueryRowContext(ctx, query, slug), product); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	if err := r.attachCategory(ctx, q, product); err != nil {
		return nil, err
	}
	return product, nil
}

// NameExists reports whether a live product carries the given name,
// case-insensitively, optionally ignoring one product id
func (r *productRepository) NameExists(ctx context.Context, q DBTX, name string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL
			  AND ($2::uuid IS NULL OR id <> $2)
		)
	`

	var exists bool
	if err := r.q(q).QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

// SlugExists reports whether a live product carries the given slug,
// optionally ignoring one product id
func (r *productRepository) SlugExists(ctx context.Context, q DBTX, slug string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE slug = $1 AND deleted_at IS NULL
			  AND ($2::uuid IS NULL OR id <> $2)
		)
	`

	var exists bool
	if err := r.q(q).QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}
	return exists, nil
}

// List retrieves live products matching the filters, newest first, with the
// total count for pagination
func (r *productRepository) List(ctx context.Context, q DBTX, filters ProductFilters, page, limit int) ([]*domain.Product, int, error) {
	whereClause := "WHERE p.deleted_at IS NULL"
	args := []interface{}{}
	argIndex := 1

	if filters.IsActive != nil {
		whereClause += fmt.Sprintf(" AND p.is_active = $%d", argIndex)
		args = append(args, *filters.IsActive)
		argIndex++
	}
	if filters.CategoryID != nil {
		whereClause += fmt.Sprintf(" AND p.category_id = $%d", argIndex)
		args = append(args, *filters.CategoryID)
		argIndex++
	}
	if filters.StoreID != nil {
		whereClause += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM store_products sp2
			WHERE sp2.product_id = p.id AND sp2.store_id = $%d AND sp2.deleted_at IS NULL)`, argIndex)
		args = append(args, *filters.StoreID)
		argIndex++
	}
	if filters.Search != "" {
		whereClause += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filters.Search+"%")
		argIndex++
	}
	if filters.MinPrice != nil {
		whereClause += fmt.Sprintf(" AND p.price >= $%d", argIndex)
		args = append(args, *filters.MinPrice)
		argIndex++
	}
	if filters.MaxPrice != nil {
		whereClause += fmt.Sprintf(" AND p.price <= $%d", argIndex)
		args = append(args, *filters.MaxPrice)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	var total int
	if err := r.q(q).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.slug, p.description, p.category_id, p.price, p.weight,
		       p.picture1, p.picture2, p.picture3, p.picture4, p.is_active,
		       p.created_at, p.updated_at,
		       c.id, c.name,
		       COALESCE((SELECT SUM(sp.stock) FROM store_products sp
		                 WHERE sp.product_id = p.id AND sp.deleted_at IS NULL), 0)
		FROM products p
		JOIN product_categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.q(q).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p := &domain.Product{Category: &domain.CategorySummary{}}
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.CategoryID,
			&p.Price,
			&p.Weight,
			&p.Picture1,
			&p.Picture2,
			&p.Picture3,
			&p.Picture4,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Category.ID,
			&p.Category.Name,
			&p.TotalStock,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// CountInLiveCarts returns how many live cart lines reference a product
func (r *productRepository) CountInLiveCarts(ctx context.Context, q DBTX, productID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM cart_products cp
		JOIN carts c ON c.id = cp.cart_id AND c.deleted_at IS NULL
		WHERE cp.product_id = $1 AND cp.deleted_at IS NULL
	`

	var count int
	if err := r.q(q).QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count product cart references: %w", err)
	}
	return count, nil
}

func (r *productRepository) attachCategory(ctx context.Context, q DBTX, product *domain.Product) error {
	query := `
		SELECT id, name FROM product_categories
		WHERE id = $1
	`

	summary := &domain.CategorySummary{}
	err := r.q(q).QueryRowContext(ctx, query, product.CategoryID).Scan(&summary.ID, &summary.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("failed to load product category: %w", err)
	}
	product.Category = summary
	return nil
}

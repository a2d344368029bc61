package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshcart/internal/domain"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines the interface for product category data access
type CategoryRepository interface {
	Create(ctx context.Context, q DBTX, category *domain.ProductCategory) error
	Update(ctx context.Context, q DBTX, category *domain.ProductCategory) error
	SoftDelete(ctx context.Context, q DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.ProductCategory, error)
	FindActiveByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.ProductCategory, error)
	NameExists(ctx context.Context, q DBTX, name string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, q DBTX, activeOnly bool) ([]*domain.ProductCategory, error)
	CountProducts(ctx context.Context, q DBTX, categoryID uuid.UUID) (int, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// Create inserts a new category into the database using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, q DBTX, category *domain.ProductCategory) error {
	query := `
		INSERT INTO product_categories (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q(q).ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Description,
		category.IsActive,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a live category
func (r *categoryRepository) Update(ctx context.Context, q DBTX, category *domain.ProductCategory) error {
	query := `
		UPDATE product_categories
		SET name = $2, description = $3, is_active = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(ctx, query, category.ID, category.Name, category.Description, category.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SoftDelete marks a category as deleted
func (r *categoryRepository) SoftDelete(ctx context.Context, q DBTX, id uuid.UUID) error {
	query := `
		UPDATE product_categories
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// FindByID retrieves a live category
func (r *categoryRepository) FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.ProductCategory, error) {
	return r.findByID(ctx, q, id, false)
}

// FindActiveByID retrieves a live, active category
func (r *categoryRepository) FindActiveByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.ProductCategory, error) {
	return r.findByID(ctx, q, id, true)
}

func (r *categoryRepository) findByID(ctx context.Context, q DBTX, id uuid.UUID, activeOnly bool) (*domain.ProductCategory, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM product_categories
		WHERE id = $1 AND deleted_at IS NULL
	`
	if activeOnly {
		query += " AND is_active = TRUE"
	}

	category := &domain.ProductCategory{}
	err := r.q(q).QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// NameExists reports whether a live category carries the given name,
// case-insensitively, optionally ignoring one category id
func (r *categoryRepository) NameExists(ctx context.Context, q DBTX, name string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM product_categories
			WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL
			  AND ($2::uuid IS NULL OR id <> $2)
		)
	`

	var exists bool
	if err := r.q(q).QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// List retrieves live categories ordered by name, each with its live product
// count. When activeOnly is set, inactive categories and products are skipped.
func (r *categoryRepository) List(ctx context.Context, q DBTX, activeOnly bool) ([]*domain.ProductCategory, error) {
	query := `
		SELECT c.id, c.name, c.description, c.is_active, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM products p
		        WHERE p.category_id = c.id AND p.deleted_at IS NULL
	`
	if activeOnly {
		query += " AND p.is_active = TRUE"
	}
	query += `) AS product_count
		FROM product_categories c
		WHERE c.deleted_at IS NULL
	`
	if activeOnly {
		query += " AND c.is_active = TRUE"
	}
	query += " ORDER BY c.name ASC"

	rows, err := r.q(q).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.ProductCategory{}
	for rows.Next() {
		category := &domain.ProductCategory{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.IsActive,
			&category.CreatedAt,
			&category.UpdatedAt,
			&category.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// CountProducts returns the number of live products referencing a category
func (r *categoryRepository) CountProducts(ctx context.Context, q DBTX, categoryID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM products
		WHERE category_id = $1 AND deleted_at IS NULL
	`

	var count int
	if err := r.q(q).QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count category products: %w", err)
	}
	return count, nil
}

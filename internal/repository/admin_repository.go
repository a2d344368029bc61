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
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminAlreadyExists = errors.New("admin with this email already exists")
)

// AdminRepository defines the interface for administrator data access
type AdminRepository interface {
	Create(ctx context.Context, q DBTX, admin *domain.Admin) error
	Update(ctx context.Context, q DBTX, admin *domain.Admin) error
	SoftDelete(ctx context.Context, q DBTX, id uuid.UUID) error
	FindByEmail(ctx context.Context, q DBTX, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.Admin, error)
	EmailExists(ctx context.Context, q DBTX, email string, excludeID *uuid.UUID) (bool, error)
	ListStoreAdmins(ctx context.Context, q DBTX) ([]*domain.Admin, error)
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new instance of AdminRepository
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// Create inserts a new admin into the database using parameterized queries
func (r *adminRepository) Create(ctx context.Context, q DBTX, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, name, email, password_hash, is_super, store_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q(q).ExecContext(
		ctx,
		query,
		admin.ID,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.IsSuper,
		admin.StoreID,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a live admin
func (r *adminRepository) Update(ctx context.Context, q DBTX, admin *domain.Admin) error {
	query := `
		UPDATE admins
		SET name = $2, email = $3, password_hash = $4, store_id = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(ctx, query, admin.ID, admin.Name, admin.Email, admin.PasswordHash, admin.StoreID)
	if err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// SoftDelete marks an admin as deleted
func (r *adminRepository) SoftDelete(ctx context.Context, q DBTX, id uuid.UUID) error {
	query := `
		UPDATE admins
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.q(q).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

const adminSelect = `
	SELECT a.id, a.name, a.email, a.password_hash, a.is_super, a.store_id,
	       a.created_at, a.updated_at,
	       s.id, s.name, s.city, s.province
	FROM admins a
	LEFT JOIN stores s ON s.id = a.store_id AND s.deleted_at IS NULL
`

func scanAdmin(row interface{ Scan(...interface{}) error }) (*domain.Admin, error) {
	admin := &domain.Admin{}
	var adminStoreID, joinedStoreID uuid.NullUUID
	var storeName, storeCity, storeProvince sql.NullString

	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.IsSuper,
		&adminStoreID,
		&admin.CreatedAt,
		&admin.UpdatedAt,
		&joinedStoreID,
		&storeName,
		&storeCity,
		&storeProvince,
	)
	if err != nil {
		return nil, err
	}

	if adminStoreID.Valid {
		id := adminStoreID.UUID
		admin.StoreID = &id
	}
	if joinedStoreID.Valid {
		admin.Store = &domain.StoreSummary{
			ID:       joinedStoreID.UUID,
			Name:     storeName.String,
			City:     storeCity.String,
			Province: storeProvince.String,
		}
	}
	return admin, nil
}

// FindByEmail retrieves a live admin by email with their store summary
func (r *adminRepository) FindByEmail(ctx context.Context, q DBTX, email string) (*domain.Admin, error) {
	query := adminSelect + ` WHERE a.email = $1 AND a.deleted_at IS NULL`

	admin, err := scanAdmin(r.q(q).QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}
	return admin, nil
}

// FindByID retrieves a live admin by ID with their store summary
func (r *adminRepository) FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.Admin, error) {
	query := adminSelect + ` WHERE a.id = $1 AND a.deleted_at IS NULL`

	admin, err := scanAdmin(r.q(q).QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by ID: %w", err)
	}
	return admin, nil
}

// EmailExists reports whether a live admin carries the given email,
// optionally ignoring one admin id
func (r *adminRepository) EmailExists(ctx context.Context, q DBTX, email string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM admins
			WHERE email = $1 AND deleted_at IS NULL
			  AND ($2::uuid IS NULL OR id <> $2)
		)
	`

	var exists bool
	if err := r.q(q).QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check admin email: %w", err)
	}
	return exists, nil
}

// ListStoreAdmins retrieves all live non-super admins, newest first
func (r *adminRepository) ListStoreAdmins(ctx context.Context, q DBTX) ([]*domain.Admin, error) {
	query := adminSelect + `
		WHERE a.deleted_at IS NULL AND a.is_super = FALSE
		ORDER BY a.created_at DESC
	`

	rows, err := r.q(q).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list store admins: %w", err)
	}
	defer rows.Close()

	admins := []*domain.Admin{}
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, admin)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	return admins, nil
}

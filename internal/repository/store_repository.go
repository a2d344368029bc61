package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freshcart/internal/domain"

	"github.com/google/uuid"
)

var ErrStoreNotFound = errors.New("store not found")

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.Store, error)
	List(ctx context.Context, q DBTX) ([]*domain.Store, error)
}

type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new instance of StoreRepository
func NewStoreRepository(db *sql.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// FindByID retrieves a live store by ID
func (r *storeRepository) FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.Store, error) {
	query := `
		SELECT id, name, province_id, province, city_id, city, address,
		       lat, lng, radius_km, created_at, updated_at
		FROM stores
		WHERE id = $1 AND deleted_at IS NULL
	`

	store := &domain.Store{}
	err := r.q(q).QueryRowContext(ctx, query, id).Scan(
		&store.ID,
		&store.Name,
		&store.ProvinceID,
		&store.Province,
		&store.CityID,
		&store.City,
		&store.Address,
		&store.Lat,
		&store.Lng,
		&store.RadiusKm,
		&store.CreatedAt,
		&store.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to find store by ID: %w", err)
	}

	return store, nil
}

// List retrieves all live stores ordered by name
func (r *storeRepository) List(ctx context.Context, q DBTX) ([]*domain.Store, error) {
	query := `
		SELECT id, name, province_id, province, city_id, city, address,
		       lat, lng, radius_km, created_at, updated_at
		FROM stores
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := r.q(q).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []*domain.Store{}
	for rows.Next() {
		store := &domain.Store{}
		err := rows.Scan(
			&store.ID,
			&store.Name,
			&store.ProvinceID,
			&store.Province,
			&store.CityID,
			&store.City,
			&store.Address,
			&store.Lat,
			&store.Lng,
			&store.RadiusKm,
			&store.CreatedAt,
			&store.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}

	return stores, nil
}

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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for customer account data access
type UserRepository interface {
	WithTx(ctx context.Context, fn func(q DBTX) error) error
	Create(ctx context.Context, q DBTX, user *domain.User) error
	FindByEmail(ctx context.Context, q DBTX, email string) (*domain.User, error)
	FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.User, error)
	ListWithAddresses(ctx context.Context, q DBTX) ([]*domain.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// WithTx scopes fn inside one database transaction
func (r *userRepository) WithTx(ctx context.Context, fn func(q DBTX) error) error {
	return WithTx(ctx, r.db, fn)
}

// Create inserts a new user into the database using parameterized queries
func (r *userRepository) Create(ctx context.Context, q DBTX, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, phone_number, password_hash, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q(q).ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a live user by email
func (r *userRepository) FindByEmail(ctx context.Context, q DBTX, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone_number, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`

	user := &domain.User{}
	err := r.q(q).QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// FindByID retrieves a live user by ID
func (r *userRepository) FindByID(ctx context.Context, q DBTX, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone_number, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	user := &domain.User{}
	err := r.q(q).QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// ListWithAddresses retrieves all live users, newest first, each with their
// live addresses
func (r *userRepository) ListWithAddresses(ctx context.Context, q DBTX) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, phone_number, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.q(q).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	byID := map[uuid.UUID]*domain.User{}
	for rows.Next() {
		user := &domain.User{Addresses: []*domain.UserAddress{}}
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PhoneNumber,
			&user.PasswordHash,
			&user.IsVerified,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
		byID[user.ID] = user
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	addrQuery := `
		SELECT id, user_id, phone_number, province_id, province, city_id, city,
		       address, lat, lng, is_default, created_at, updated_at
		FROM user_addresses
		WHERE deleted_at IS NULL
		ORDER BY is_default DESC, created_at ASC
	`

	addrRows, err := r.q(q).QueryContext(ctx, addrQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list user addresses: %w", err)
	}
	defer addrRows.Close()

	for addrRows.Next() {
		addr := &domain.UserAddress{}
		err := addrRows.Scan(
			&addr.ID,
			&addr.UserID,
			&addr.PhoneNumber,
			&addr.ProvinceID,
			&addr.Province,
			&addr.CityID,
			&addr.City,
			&addr.Address,
			&addr.Lat,
			&addr.Lng,
			&addr.IsDefault,
			&addr.CreatedAt,
			&addr.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user address: %w", err)
		}
		if user, ok := byID[addr.UserID]; ok {
			user.Addresses = append(user.Addresses, addr)
		}
	}
	if err = addrRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user addresses: %w", err)
	}

	return users, nil
}

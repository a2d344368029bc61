package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a customer account
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PhoneNumber  string     `json:"phone_number" db:"phone_number"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	Addresses []*UserAddress `json:"addresses,omitempty" db:"-"`
}

// UserAddress is a delivery address belonging to a user
type UserAddress struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	PhoneNumber string     `json:"phone_number" db:"phone_number"`
	ProvinceID  int        `json:"province_id" db:"province_id"`
	Province    string     `json:"province" db:"province"`
	CityID      int        `json:"city_id" db:"city_id"`
	City        string     `json:"city" db:"city"`
	Address     string     `json:"address" db:"address"`
	Lat         float64    `json:"lat" db:"lat"`
	Lng         float64    `json:"lng" db:"lng"`
	IsDefault   bool       `json:"is_default" db:"is_default"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

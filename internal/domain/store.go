package domain

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a physical store fulfilling orders within a service radius
type Store struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	ProvinceID int        `json:"province_id" db:"province_id"`
	Province   string     `json:"province" db:"province"`
	CityID     int        `json:"city_id" db:"city_id"`
	City       string     `json:"city" db:"city"`
	Address    string     `json:"address" db:"address"`
	Lat        float64    `json:"lat" db:"lat"`
	Lng        float64    `json:"lng" db:"lng"`
	RadiusKm   float64    `json:"radius_km" db:"radius_km"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// StoreSummary is the subset of store fields embedded in admin responses
type StoreSummary struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	City     string    `json:"city" db:"city"`
	Province string    `json:"province" db:"province"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory groups products; names are unique case-insensitively
type ProductCategory struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	ProductCount int `json:"product_count" db:"-"`
}

// Product represents a catalog item. The slug is derived from the name and
// kept unique among non-deleted products.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description" db:"description"`
	CategoryID  uuid.UUID  `json:"category_id" db:"category_id"`
	Price       float64    `json:"price" db:"price"`
	Weight      *float64   `json:"weight,omitempty" db:"weight"`
	Picture1    string     `json:"picture1" db:"picture1"`
	Picture2    *string    `json:"picture2,omitempty" db:"picture2"`
	Picture3    *string    `json:"picture3,omitempty" db:"picture3"`
	Picture4    *string    `json:"picture4,omitempty" db:"picture4"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	Category   *CategorySummary `json:"category,omitempty" db:"-"`
	TotalStock int              `json:"total_stock" db:"-"`
	StoreStock []*StoreProduct  `json:"store_stock,omitempty" db:"-"`
}

// CategorySummary is the subset of category fields embedded in product responses
type CategorySummary struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// StoreProduct is the authoritative per-store available stock for a product.
// The cart core only ever reads it; stock is a ceiling, not a reservation.
type StoreProduct struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	StoreID   uuid.UUID  `json:"store_id" db:"store_id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	Stock     int        `json:"stock" db:"stock"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	Store *StoreSummary `json:"store,omitempty" db:"-"`
}

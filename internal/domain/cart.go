package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds a user's cart lines. Exactly one live cart exists per user.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	Lines []*CartLine `json:"items" db:"-"`
}

// CartLine records the quantity of one product in a cart, scoped to the store
// it will be fulfilled from. A product appears at most once per store per
// cart; quantity is always positive, zero means the line is deleted.
type CartLine struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CartID    uuid.UUID  `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	StoreID   uuid.UUID  `json:"store_id" db:"store_id"`
	Quantity  int        `json:"quantity" db:"quantity"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	Product *Product `json:"product,omitempty" db:"-"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents an administrator account. Super admins manage the whole
// platform; store admins are scoped to a single store via StoreID.
type Admin struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsSuper      bool       `json:"is_super" db:"is_super"`
	StoreID      *uuid.UUID `json:"store_id,omitempty" db:"store_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	Store *StoreSummary `json:"store,omitempty" db:"-"`
}

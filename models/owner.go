package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner represents an account that can run investigations and owns the
// resulting reports.
type Owner struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type Model interface {
	Self() string
}

// DefaultModel is the base model for all ledger entities.
//
// IDs are assigned monotonically by the database and are never reused.
// They are the authoritative reference for every entity.
type DefaultModel struct {
	ID        uint64    `json:"id" example:"4"`                                  // Monotonic ID of the resource
	CreatedAt time.Time `json:"createdAt" example:"2022-04-02T19:28:44.491514Z"` // Time the resource was created
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	return nil
}

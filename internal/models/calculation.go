package models

import (
	"strings"

	"gorm.io/gorm"
)

// Calculation is an externally computed encrypted aggregate, persisted
// for the audit trail. The result was verified via its inclusion proof
// before the handle was stored; the plaintext value is never seen here.
type Calculation struct {
	DefaultModel
	Kind          RecordType
	Result        string   // Handle of the encrypted result
	DepartmentIDs []uint64 `gorm:"serializer:json"`
	ProjectIDs    []uint64 `gorm:"serializer:json"`
	Description   string
	Creator       string
}

func (c Calculation) Self() string {
	return "Calculation"
}

func (c *Calculation) BeforeSave(_ *gorm.DB) error {
	c.Description = strings.TrimSpace(c.Description)

	if c.Kind != RecordTypeIncome && c.Kind != RecordTypeExpense {
		return ErrInvalidRecordType
	}

	if c.Description == "" {
		return ErrDescriptionEmpty
	}

	return nil
}

package models

import (
	"strings"

	"gorm.io/gorm"
)

// RecordType classifies a financial record.
type RecordType string

const (
	RecordTypeIncome  RecordType = "income"
	RecordTypeExpense RecordType = "expense"
)

// Record is a single financial entry of a department.
//
// The amount is an opaque handle referencing an encrypted value; the
// plaintext amount never passes through this backend. Records are
// immutable after creation and are never deleted, so ids are dense and
// strictly ascending in creation order.
type Record struct {
	DefaultModel
	Type         RecordType `gorm:"index"`
	Amount       string     // Handle of the encrypted amount
	DepartmentID uint64     `gorm:"index"`
	Department   Department `json:"-"`
	ProjectID    uint64     // 0 means "no project"
	Description  string
	Creator      string `gorm:"index"`
}

func (r Record) Self() string {
	return "Record"
}

// BeforeSave validates the record and trims whitespace.
func (r *Record) BeforeSave(_ *gorm.DB) error {
	r.Description = strings.TrimSpace(r.Description)

	if r.Type != RecordTypeIncome && r.Type != RecordTypeExpense {
		return ErrInvalidRecordType
	}

	if r.Description == "" {
		return ErrDescriptionEmpty
	}

	return nil
}

// RecordAmounts returns the encrypted amount handles of all records that
// match the type, belong to one of the departments and, when projectID is
// not 0, carry that project. Handles are returned in creation order.
//
// Only plaintext metadata is inspected here; the amounts themselves stay
// opaque and are combined homomorphically by the caller.
func RecordAmounts(db *gorm.DB, t RecordType, departmentIDs []uint64, projectID uint64) ([]string, error) {
	var handles []string

	q := db.
		Model(&Record{}).
		Where("type = ?", t).
		Where("department_id IN ?", departmentIDs).
		Order("id ASC")

	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}

	err := q.Pluck("amount", &handles).Error
	if err != nil {
		return nil, err
	}

	return handles, nil
}

// AllRecordAmounts returns the encrypted amount handles of every record
// that currently exists. Used for the bulk grant when a principal is
// promoted to auditor.
func AllRecordAmounts(db *gorm.DB) ([]string, error) {
	var handles []string

	err := db.
		Model(&Record{}).
		Order("id ASC").
		Pluck("amount", &handles).Error
	if err != nil {
		return nil, err
	}

	return handles, nil
}

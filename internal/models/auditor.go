package models

import (
	"strings"

	"gorm.io/gorm"
)

// Auditor is a principal with standing cross-department read access to
// record metadata.
//
// Promotion comes with a one-time bulk decrypt grant on all record
// amounts existing at that moment. Records created afterwards are not
// granted automatically, and removing an auditor does not retract grants
// that were already issued. Both are deliberate properties of the
// additive capability model.
type Auditor struct {
	DefaultModel
	Principal string `gorm:"uniqueIndex"`
}

func (a Auditor) Self() string {
	return "Auditor"
}

func (a *Auditor) BeforeSave(_ *gorm.DB) error {
	a.Principal = strings.TrimSpace(a.Principal)

	if a.Principal == "" {
		return ErrPrincipalEmpty
	}

	return nil
}

// IsAuditor reports whether the principal is currently registered as an
// auditor.
func IsAuditor(db *gorm.DB, principal string) (bool, error) {
	if principal == "" {
		return false, nil
	}

	var count int64
	err := db.
		Model(&Auditor{}).
		Where(&Auditor{Principal: principal}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

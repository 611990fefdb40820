package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SystemAdmin is the principal that manages departments and auditors.
// It is set exactly once, by Bootstrap.
var SystemAdmin string

// SystemDepartmentID is the id of the reserved department created at
// bootstrap and owned by the system administrator. User departments
// therefore always get ids starting at 2.
const SystemDepartmentID uint64 = 1

// Department is an organizational unit scoping record visibility and
// creation rights. Departments are never deleted and their admin is
// never transferred.
type Department struct {
	DefaultModel
	Name  string
	Admin string `gorm:"index"`
}

func (d Department) Self() string {
	return "Department"
}

// BeforeSave trims whitespace and ensures the required fields are set.
func (d *Department) BeforeSave(_ *gorm.DB) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Admin = strings.TrimSpace(d.Admin)

	if d.Name == "" {
		return ErrDepartmentNameEmpty
	}

	if d.Admin == "" {
		return ErrPrincipalEmpty
	}

	return nil
}

// DepartmentMember is one entry in a department's member set. The member
// rows double as the reverse index from a principal to the departments it
// belongs to, so both directions are consistent by construction.
type DepartmentMember struct {
	DefaultModel
	DepartmentID uint64     `gorm:"uniqueIndex:department_member"`
	Department   Department `json:"-"`
	Principal    string     `gorm:"uniqueIndex:department_member"`
}

func (m DepartmentMember) Self() string {
	return "DepartmentMember"
}

func (m *DepartmentMember) BeforeSave(_ *gorm.DB) error {
	m.Principal = strings.TrimSpace(m.Principal)

	if m.Principal == "" {
		return ErrPrincipalEmpty
	}

	return nil
}

// Members returns the principals in the department's member set in
// insertion order. The admin is always contained as it is inserted as the
// sole initial member at creation.
func (d Department) Members(db *gorm.DB) ([]string, error) {
	var members []string

	err := db.
		Model(&DepartmentMember{}).
		Where(&DepartmentMember{DepartmentID: d.ID}).
		Order("id ASC").
		Pluck("principal", &members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

// IsMember reports whether the principal is the department admin or part
// of the member set. This predicate underlies every scoped access check.
func (d Department) IsMember(db *gorm.DB, principal string) (bool, error) {
	if principal == "" {
		return false, nil
	}

	if principal == d.Admin {
		return true, nil
	}

	var count int64
	err := db.
		Model(&DepartmentMember{}).
		Where(&DepartmentMember{DepartmentID: d.ID, Principal: principal}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// UserDepartments returns the ids of all departments the principal
// belongs to, in the order the memberships were created.
func UserDepartments(db *gorm.DB, principal string) ([]uint64, error) {
	var ids []uint64

	err := db.
		Model(&DepartmentMember{}).
		Where(&DepartmentMember{Principal: principal}).
		Order("id ASC").
		Pluck("department_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// DepartmentsExist verifies that every id in the list references an
// existing department. Duplicates are allowed.
func DepartmentsExist(db *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return ErrNoDepartmentSelected
	}

	unique := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	distinct := make([]uint64, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}

	var count int64
	err := db.Model(&Department{}).Where("id IN ?", distinct).Count(&count).Error
	if err != nil {
		return err
	}

	if count != int64(len(distinct)) {
		return fmt.Errorf("%w department matching your query", ErrResourceNotFound)
	}

	return nil
}

// Bootstrap sets the system administrator and ensures the reserved
// "System" department exists with id 1.
func Bootstrap(db *gorm.DB, admin string) error {
	admin = strings.TrimSpace(admin)
	if admin == "" {
		return ErrPrincipalEmpty
	}

	SystemAdmin = admin

	return db.Transaction(func(tx *gorm.DB) error {
		department := Department{
			DefaultModel: DefaultModel{ID: SystemDepartmentID},
			Name:         "System",
			Admin:        admin,
		}

		err := tx.FirstOrCreate(&department, SystemDepartmentID).Error
		if err != nil {
			return err
		}

		member := DepartmentMember{DepartmentID: SystemDepartmentID, Principal: department.Admin}
		return tx.Where(&member).FirstOrCreate(&member).Error
	})
}

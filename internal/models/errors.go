package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// ErrNoPrincipal is returned for operations that need an authenticated
	// caller when the request carried no principal.
	ErrNoPrincipal = errors.New("this operation requires an authenticated principal")

	ErrUnauthorized    = errors.New("you are not allowed to perform this operation")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("resource already exists")
)

// Department errors
var (
	ErrDepartmentNameEmpty = fmt.Errorf("%w: the department name must not be empty", ErrInvalidArgument)
	ErrPrincipalEmpty      = fmt.Errorf("%w: the principal must not be empty", ErrInvalidArgument)
	ErrAdminUnremovable    = fmt.Errorf("%w: the department admin cannot be removed from the member set", ErrInvalidArgument)
	ErrAlreadyMember       = fmt.Errorf("%w: the principal is already a member of this department", ErrAlreadyExists)
	ErrNotSystemAdmin      = fmt.Errorf("%w: only the system administrator may do this", ErrUnauthorized)
	ErrNotDepartmentAdmin  = fmt.Errorf("%w: only the department admin may do this", ErrUnauthorized)
)

// Record errors
var (
	ErrDescriptionEmpty     = fmt.Errorf("%w: the description must not be empty", ErrInvalidArgument)
	ErrInvalidRecordType    = fmt.Errorf("%w: the record type must be income or expense", ErrInvalidArgument)
	ErrNotDepartmentMember  = fmt.Errorf("%w: only department members may do this", ErrUnauthorized)
	ErrNotAuditor           = fmt.Errorf("%w: only auditors may do this", ErrUnauthorized)
	ErrRecordNotReadable    = fmt.Errorf("%w: only department members and auditors may read this record", ErrUnauthorized)
	ErrNoDepartmentSelected = fmt.Errorf("%w: at least one department must be selected", ErrInvalidArgument)
)

// Auditor errors
var ErrAlreadyAuditor = fmt.Errorf("%w: the principal is already an auditor", ErrAlreadyExists)

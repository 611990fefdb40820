package v1

import (
	"fmt"

	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DepartmentEditable represents all user configurable parameters
type DepartmentEditable struct {
	Name  string `json:"name" example:"Engineering" default:""`  // Name of the department
	Admin string `json:"admin" example:"alice" default:""`       // Principal administrating the department
}

func (editable DepartmentEditable) model() models.Department {
	return models.Department{
		Name:  editable.Name,
		Admin: editable.Admin,
	}
}

type DepartmentLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/departments/2"`            // The department itself
	Records string `json:"records" example:"https://example.com/api/v1/departments/2/records"` // Records of this department
}

type Department struct {
	models.DefaultModel
	DepartmentEditable
	Members []string        `json:"members" example:"alice,bob"` // Member set of the department, in insertion order
	Links   DepartmentLinks `json:"links"`
}

func newDepartment(c *gin.Context, db *gorm.DB, model models.Department) (Department, error) {
	url := c.GetString(string(models.DBContextURL))

	members, err := model.Members(db)
	if err != nil {
		return Department{}, err
	}

	return Department{
		DefaultModel: model.DefaultModel,
		DepartmentEditable: DepartmentEditable{
			Name:  model.Name,
			Admin: model.Admin,
		},
		Members: members,
		Links: DepartmentLinks{
			Self:    fmt.Sprintf("%s/v1/departments/%d", url, model.ID),
			Records: fmt.Sprintf("%s/v1/departments/%d/records", url, model.ID),
		},
	}, nil
}

type DepartmentResponse struct {
	Data  *Department `json:"data"`                                                   // Data for the department
	Error *string     `json:"error" example:"there is no department matching your query"` // The error, if any occurred
	Code  *string     `json:"code" example:"not_found"`                               // Stable machine checkable reason, if an error occurred
}

type DepartmentListResponse struct {
	Data  []Department `json:"data"`                                                   // List of departments
	Error *string      `json:"error" example:"there is no department matching your query"` // The error, if any occurred
	Code  *string      `json:"code" example:"not_found"`                               // Stable machine checkable reason, if an error occurred
}

// MemberEditable represents a membership change
type MemberEditable struct {
	Principal string `json:"principal" example:"bob" default:""` // Principal to add to the member set
}

type DepartmentQueryFilter struct {
	Member string `form:"member" filterField:"false"` // Only departments the principal belongs to
	Name   string `form:"name" filterField:"false"`   // Filter by name, supports globbing
}

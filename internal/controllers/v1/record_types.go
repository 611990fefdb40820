package v1

import (
	"fmt"

	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RecordEditable represents all user configurable parameters
type RecordEditable struct {
	Type         models.RecordType `json:"type" example:"income"`                                    // Type of the record, income or expense
	Ciphertext   []byte            `json:"ciphertext" swaggertype:"string" format:"base64"`          // Externally encrypted amount
	Proof        []byte            `json:"proof" swaggertype:"string" format:"base64"`               // Inclusion proof for the ciphertext
	DepartmentID uint64            `json:"departmentId" example:"2"`                                 // ID of the department the record belongs to
	ProjectID    uint64            `json:"projectId" example:"0" default:"0"`                        // Caller defined project, 0 means no project
	Description  string            `json:"description" example:"Invoice 2026-0017" default:""`       // Description of the record
}

type RecordLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/records/7"`           // The record itself
	Department string `json:"department" example:"https://example.com/api/v1/departments/2"` // The department the record belongs to
}

type Record struct {
	models.DefaultModel
	Type         models.RecordType `json:"type" example:"income"`                   // Type of the record
	Amount       string            `json:"amount"`                                  // Handle of the encrypted amount, decryptable only with a grant
	DepartmentID uint64            `json:"departmentId" example:"2"`                // ID of the department the record belongs to
	ProjectID    uint64            `json:"projectId" example:"0"`                   // Caller defined project, 0 means no project
	Description  string            `json:"description" example:"Invoice 2026-0017"` // Description of the record
	Creator      string            `json:"creator" example:"bob"`                   // Principal that created the record
	Links        RecordLinks       `json:"links"`
}

func newRecord(c *gin.Context, model models.Record) Record {
	url := c.GetString(string(models.DBContextURL))

	return Record{
		DefaultModel: model.DefaultModel,
		Type:         model.Type,
		Amount:       model.Amount,
		DepartmentID: model.DepartmentID,
		ProjectID:    model.ProjectID,
		Description:  model.Description,
		Creator:      model.Creator,
		Links: RecordLinks{
			Self:       fmt.Sprintf("%s/v1/records/%d", url, model.ID),
			Department: fmt.Sprintf("%s/v1/departments/%d", url, model.DepartmentID),
		},
	}
}

type RecordResponse struct {
	Data  *Record `json:"data"`                                                    // Data for the record
	Error *string `json:"error" example:"there is no record matching your query"` // The error, if any occurred
	Code  *string `json:"code" example:"not_found"`                                // Stable machine checkable reason, if an error occurred
}

type RecordListResponse struct {
	Data       []Record    `json:"data"`                                                    // List of records in ascending creation order
	Error      *string     `json:"error" example:"there is no record matching your query"` // The error, if any occurred
	Code       *string     `json:"code" example:"not_found"`                                // Stable machine checkable reason, if an error occurred
	Pagination *Pagination `json:"pagination"`                                              // Pagination information
}

type RecordQueryFilter struct {
	Offset uint `form:"offset" filterField:"false"` // The offset of the first record returned. Defaults to 0.
	Limit  int  `form:"limit" filterField:"false"`  // Maximum number of records to return. Defaults to 50.
}

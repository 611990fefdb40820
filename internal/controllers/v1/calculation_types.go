package v1

import (
	"fmt"

	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// CalculationEditable represents all user configurable parameters
type CalculationEditable struct {
	Kind          models.RecordType `json:"kind" example:"income"`                              // Label for the calculation, income or expense
	Ciphertext    []byte            `json:"ciphertext" swaggertype:"string" format:"base64"`    // Externally computed encrypted result
	Proof         []byte            `json:"proof" swaggertype:"string" format:"base64"`         // Inclusion proof for the ciphertext
	DepartmentIDs []uint64          `json:"departmentIds" example:"2,3"`                        // Departments the calculation covers
	ProjectIDs    []uint64          `json:"projectIds" example:"0"`                             // Projects the calculation covers
	Description   string            `json:"description" example:"Q3 totals, offline" default:""` // Description of the calculation
}

type CalculationLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/calculations/3"` // The calculation itself
}

type Calculation struct {
	models.DefaultModel
	Kind          models.RecordType `json:"kind" example:"income"`               // Label for the calculation
	Result        string            `json:"result"`                              // Handle of the encrypted result
	DepartmentIDs []uint64          `json:"departmentIds" example:"2,3"`         // Departments the calculation covers
	ProjectIDs    []uint64          `json:"projectIds" example:"0"`              // Projects the calculation covers
	Description   string            `json:"description" example:"Q3 totals"`     // Description of the calculation
	Creator       string            `json:"creator" example:"carol"`             // Principal that submitted the calculation
	Links         CalculationLinks  `json:"links"`
}

func newCalculation(c *gin.Context, model models.Calculation) Calculation {
	url := c.GetString(string(models.DBContextURL))

	return Calculation{
		DefaultModel:  model.DefaultModel,
		Kind:          model.Kind,
		Result:        model.Result,
		DepartmentIDs: model.DepartmentIDs,
		ProjectIDs:    model.ProjectIDs,
		Description:   model.Description,
		Creator:       model.Creator,
		Links: CalculationLinks{
			Self: fmt.Sprintf("%s/v1/calculations/%d", url, model.ID),
		},
	}
}

type CalculationResponse struct {
	Data  *Calculation `json:"data"`                                                        // Data for the calculation
	Error *string      `json:"error" example:"there is no calculation matching your query"` // The error, if any occurred
	Code  *string      `json:"code" example:"not_found"`                                    // Stable machine checkable reason, if an error occurred
}

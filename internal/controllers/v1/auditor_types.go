package v1

import (
	"github.com/cipherledger/backend/internal/models"
)

// AuditorEditable represents all user configurable parameters
type AuditorEditable struct {
	Principal string `json:"principal" example:"carol" default:""` // Principal to promote to auditor
}

type Auditor struct {
	models.DefaultModel
	AuditorEditable
}

func newAuditor(model models.Auditor) Auditor {
	return Auditor{
		DefaultModel: model.DefaultModel,
		AuditorEditable: AuditorEditable{
			Principal: model.Principal,
		},
	}
}

type AuditorResponse struct {
	Data  *Auditor `json:"data"`                                                    // Data for the auditor
	Error *string  `json:"error" example:"there is no auditor matching your query"` // The error, if any occurred
	Code  *string  `json:"code" example:"not_found"`                                // Stable machine checkable reason, if an error occurred
}

type AuditorListResponse struct {
	Data  []Auditor `json:"data"`                                                    // List of auditors
	Error *string   `json:"error" example:"there is no auditor matching your query"` // The error, if any occurred
	Code  *string   `json:"code" example:"not_found"`                                // Stable machine checkable reason, if an error occurred
}

package v1

import (
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type URIID struct {
	ID uint64 `uri:"id" binding:"required"` // ID of the resource
}

type URIPrincipal struct {
	Principal string `uri:"principal" binding:"required"` // Principal the operation refers to
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// principal returns the authenticated caller of the request. The empty
// string means the request is anonymous.
func principal(c *gin.Context) string {
	return c.GetString(string(models.ContextPrincipal))
}

// requirePrincipal returns the authenticated caller or an error for
// anonymous requests.
func requirePrincipal(c *gin.Context) (string, error) {
	p := principal(c)
	if p == "" {
		return "", models.ErrNoPrincipal
	}

	return p, nil
}

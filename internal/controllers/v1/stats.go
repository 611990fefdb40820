package v1

import (
	"net/http"

	"github.com/cipherledger/backend/internal/httputil"
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterStatsRoutes registers the stats route with
// the RouterGroup that is passed.
func RegisterStatsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsStats)
	r.GET("", GetStats)
}

type Stats struct {
	Departments  int64 `json:"departments" example:"4"`  // Number of departments, including the reserved System department
	Records      int64 `json:"records" example:"127"`    // Number of records
	Calculations int64 `json:"calculations" example:"3"` // Number of saved calculations
	Auditors     int64 `json:"auditors" example:"1"`     // Number of current auditors
}

type StatsResponse struct {
	Data  *Stats  `json:"data"`       // Entity counters
	Error *string `json:"error"`      // The error, if any occurred
	Code  *string `json:"code"`       // Stable machine checkable reason, if an error occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Stats
// @Success		204
// @Router			/v1/stats [options]
func OptionsStats(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get stats
// @Description	Returns the entity counters of the ledger. Counters are monotonic as entities are never deleted.
// @Tags			Stats
// @Produce		json
// @Success		200	{object}	StatsResponse
// @Failure		500	{object}	StatsResponse
// @Router			/v1/stats [get]
func GetStats(c *gin.Context) {
	var stats Stats

	for _, count := range []struct {
		model any
		into  *int64
	}{
		{&models.Department{}, &stats.Departments},
		{&models.Record{}, &stats.Records},
		{&models.Calculation{}, &stats.Calculations},
		{&models.Auditor{}, &stats.Auditors},
	} {
		err := models.DB.Model(count.model).Count(count.into).Error
		if err != nil {
			e := err.Error()
			code := errorCode(err)
			c.JSON(status(err), StatsResponse{Error: &e, Code: &code})
			return
		}
	}

	c.JSON(http.StatusOK, StatsResponse{Data: &stats})
}

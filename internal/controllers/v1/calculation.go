package v1

import (
	"net/http"

	"github.com/cipherledger/backend/internal/events"
	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/httputil"
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterCalculationRoutes registers the routes for calculations with
// the RouterGroup that is passed.
func RegisterCalculationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCalculationList)
		r.POST("", SaveCalculation)
	}

	// Calculation with ID
	{
		r.OPTIONS("/:id", OptionsCalculationDetail)
		r.GET("/:id", GetCalculation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calculations
// @Success		204
// @Router			/v1/calculations [options]
func OptionsCalculationList(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calculations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint64	true	"ID of the calculation"
// @Router			/v1/calculations/{id} [options]
func OptionsCalculationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	_, err = getModelByID[models.Calculation](uri.ID)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Save calculation
// @Description	Persists an externally computed encrypted aggregate for the audit trail. Any authenticated principal may submit one; the inclusion proof is the integrity gate. The result is granted to the caller.
// @Tags			Calculations
// @Accept			json
// @Produce		json
// @Success		201			{object}	CalculationResponse
// @Failure		400			{object}	CalculationResponse
// @Failure		401			{object}	CalculationResponse
// @Failure		422			{object}	CalculationResponse
// @Failure		500			{object}	CalculationResponse
// @Param			calculation	body		CalculationEditable	true	"Calculation"
// @Router			/v1/calculations [post]
func SaveCalculation(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	var editable CalculationEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	result, err := fhe.Svc.FromExternal(editable.Ciphertext, editable.Proof)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	err = fhe.Svc.Grant(result, caller)
	if err == nil {
		err = fhe.Svc.GrantSelf(result)
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	calculation := models.Calculation{
		Kind:          editable.Kind,
		Result:        result,
		DepartmentIDs: editable.DepartmentIDs,
		ProjectIDs:    editable.ProjectIDs,
		Description:   editable.Description,
		Creator:       caller,
	}

	err = models.DB.Create(&calculation).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	events.CalculationSaved(calculation.ID, calculation.Creator)

	data := newCalculation(c, calculation)
	c.JSON(http.StatusCreated, CalculationResponse{Data: &data})
}

// @Summary		Get calculation
// @Description	Returns a specific calculation. The contained handle is useless without a decrypt grant, so no access restriction applies.
// @Tags			Calculations
// @Produce		json
// @Success		200	{object}	CalculationResponse
// @Failure		400	{object}	CalculationResponse
// @Failure		404	{object}	CalculationResponse
// @Failure		500	{object}	CalculationResponse
// @Param			id	path		uint64	true	"ID of the calculation"
// @Router			/v1/calculations/{id} [get]
func GetCalculation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	calculation, err := getModelByID[models.Calculation](uri.ID)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), CalculationResponse{Error: &e, Code: &code})
		return
	}

	data := newCalculation(c, calculation)
	c.JSON(http.StatusOK, CalculationResponse{Data: &data})
}

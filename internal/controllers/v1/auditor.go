package v1

import (
	"net/http"
	"strings"

	"github.com/cipherledger/backend/internal/events"
	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/httputil"
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAuditorRoutes registers the routes for auditors with
// the RouterGroup that is passed.
func RegisterAuditorRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAuditorList)
		r.GET("", GetAuditors)
		r.POST("", AddAuditor)
	}

	// Auditor by principal
	{
		r.OPTIONS("/:principal", OptionsAuditorDetail)
		r.DELETE("/:principal", RemoveAuditor)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auditors
// @Success		204
// @Router			/v1/auditors [options]
func OptionsAuditorList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auditors
// @Success		204
// @Router			/v1/auditors/{principal} [options]
func OptionsAuditorDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Add auditor
// @Description	Promotes a principal to auditor. Only the system administrator may do this. The new auditor receives a decrypt grant on every record amount existing at promotion time; records created afterwards are not granted automatically.
// @Tags			Auditors
// @Accept			json
// @Produce		json
// @Success		201		{object}	AuditorResponse
// @Failure		400		{object}	AuditorResponse
// @Failure		401		{object}	AuditorResponse
// @Failure		403		{object}	AuditorResponse
// @Failure		409		{object}	AuditorResponse
// @Failure		500		{object}	AuditorResponse
// @Param			auditor	body		AuditorEditable	true	"Auditor"
// @Router			/v1/auditors [post]
func AddAuditor(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	if caller != models.SystemAdmin {
		err := models.ErrNotSystemAdmin
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	var editable AuditorEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	auditor := models.Auditor{Principal: strings.TrimSpace(editable.Principal)}
	if auditor.Principal == "" {
		err := models.ErrPrincipalEmpty
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	// The registration is checked first so a duplicate promotion fails
	// before any grant is issued. Grants are issued before the row is
	// stored: if the bulk grant fails halfway, the principal is not an
	// auditor and the operation can be retried, the already issued
	// grants are idempotent.
	existing, err := models.IsAuditor(models.DB, auditor.Principal)
	if err == nil && existing {
		err = models.ErrAlreadyAuditor
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	handles, err := models.AllRecordAmounts(models.DB)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	for _, handle := range handles {
		err = fhe.Svc.Grant(handle, auditor.Principal)
		if err != nil {
			break
		}
	}
	if err == nil {
		err = models.DB.Create(&auditor).Error
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorResponse{Error: &e, Code: &code})
		return
	}

	events.AuditorAdded(auditor.Principal, len(handles))

	data := newAuditor(auditor)
	c.JSON(http.StatusCreated, AuditorResponse{Data: &data})
}

// @Summary		Get auditors
// @Description	Returns the current auditors. Only the system administrator may do this.
// @Tags			Auditors
// @Produce		json
// @Success		200	{object}	AuditorListResponse
// @Failure		401	{object}	AuditorListResponse
// @Failure		403	{object}	AuditorListResponse
// @Failure		500	{object}	AuditorListResponse
// @Router			/v1/auditors [get]
func GetAuditors(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorListResponse{Error: &e, Code: &code})
		return
	}

	if caller != models.SystemAdmin {
		err := models.ErrNotSystemAdmin
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorListResponse{Error: &e, Code: &code})
		return
	}

	var auditors []models.Auditor
	err = models.DB.Order("id ASC").Find(&auditors).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AuditorListResponse{Error: &e, Code: &code})
		return
	}

	data := make([]Auditor, 0, len(auditors))
	for _, auditor := range auditors {
		data = append(data, newAuditor(auditor))
	}

	c.JSON(http.StatusOK, AuditorListResponse{Data: data})
}

// @Summary		Remove auditor
// @Description	Removes a principal from the auditor set. Only the system administrator may do this. Decrypt grants that were already issued are not retracted, the principal only loses the auditor role gating future bulk reads.
// @Tags			Auditors
// @Success		204
// @Failure		401			{object}	httpError
// @Failure		403			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			principal	path		string	true	"Principal to remove"
// @Router			/v1/auditors/{principal} [delete]
func RemoveAuditor(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	if caller != models.SystemAdmin {
		err := models.ErrNotSystemAdmin
		c.JSON(status(err), newHTTPError(err))
		return
	}

	var uri URIPrincipal
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	var auditor models.Auditor
	err = models.DB.Where(&models.Auditor{Principal: uri.Principal}).First(&auditor).Error
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	err = models.DB.Delete(&auditor).Error
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	events.AuditorRemoved(auditor.Principal)

	c.JSON(http.StatusNoContent, nil)
}

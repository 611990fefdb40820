package v1

import (
	"fmt"
	"net/http"

	"github.com/cipherledger/backend/internal/events"
	"github.com/cipherledger/backend/internal/httputil"
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// RegisterDepartmentRoutes registers the routes for departments with
// the RouterGroup that is passed.
func RegisterDepartmentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsDepartmentList)
		r.GET("", GetDepartments)
		r.POST("", CreateDepartment)
	}

	// Department with ID
	{
		r.OPTIONS("/:id", OptionsDepartmentDetail)
		r.GET("/:id", GetDepartment)
	}

	// Member set
	{
		r.OPTIONS("/:id/members", OptionsMemberList)
		r.POST("/:id/members", AddMember)
		r.OPTIONS("/:id/members/:principal", OptionsMemberDetail)
		r.DELETE("/:id/members/:principal", RemoveMember)
	}

	// Records scoped by department
	{
		r.OPTIONS("/:id/records", OptionsDepartmentRecords)
		r.GET("/:id/records", GetDepartmentRecords)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Departments
// @Success		204
// @Router			/v1/departments [options]
func OptionsDepartmentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Departments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint64	true	"ID of the department"
// @Router			/v1/departments/{id} [options]
func OptionsDepartmentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	_, err = getModelByID[models.Department](uri.ID)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Departments
// @Success		204
// @Router			/v1/departments/{id}/members [options]
func OptionsMemberList(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Departments
// @Success		204
// @Router			/v1/departments/{id}/members/{principal} [options]
func OptionsMemberDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Create department
// @Description	Creates a new department. Only the system administrator may do this.
// @Tags			Departments
// @Accept			json
// @Produce		json
// @Success		201			{object}	DepartmentResponse
// @Failure		400			{object}	DepartmentResponse
// @Failure		401			{object}	DepartmentResponse
// @Failure		403			{object}	DepartmentResponse
// @Failure		500			{object}	DepartmentResponse
// @Param			department	body		DepartmentEditable	true	"Department"
// @Router			/v1/departments [post]
func CreateDepartment(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	if caller != models.SystemAdmin {
		err := models.ErrNotSystemAdmin
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	var editable DepartmentEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	department := editable.model()

	// The admin is inserted as the sole initial member, so the member
	// set is never empty and the reverse index covers the admin, too.
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&department).Error
		if err != nil {
			return err
		}

		return tx.Create(&models.DepartmentMember{
			DepartmentID: department.ID,
			Principal:    department.Admin,
		}).Error
	})
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	events.DepartmentCreated(department.ID, department.Name, department.Admin)

	data, err := newDepartment(c, models.DB, department)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	c.JSON(http.StatusCreated, DepartmentResponse{Data: &data})
}

// @Summary		Get departments
// @Description	Returns a list of departments. Membership lists are not confidential, so no authentication is required.
// @Tags			Departments
// @Produce		json
// @Success		200	{object}	DepartmentListResponse
// @Failure		500	{object}	DepartmentListResponse
// @Router			/v1/departments [get]
// @Param			member	query	string	false	"Only departments this principal belongs to"
// @Param			name	query	string	false	"Filter by name, supports globbing"
func GetDepartments(c *gin.Context) {
	var filter DepartmentQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	q := models.DB.Order("id ASC")

	// The member filter is the reverse index lookup from a principal to
	// its departments
	if filter.Member != "" {
		ids, err := models.UserDepartments(models.DB, filter.Member)
		if err != nil {
			e := err.Error()
			code := errorCode(err)
			c.JSON(status(err), DepartmentListResponse{Error: &e, Code: &code})
			return
		}

		q = q.Where("id IN ?", ids)
	}

	var departments []models.Department
	err := q.Find(&departments).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentListResponse{Error: &e, Code: &code})
		return
	}

	data := make([]Department, 0)
	for _, department := range departments {
		if filter.Name != "" && !glob.Glob(filter.Name, department.Name) {
			continue
		}

		apiResource, err := newDepartment(c, models.DB, department)
		if err != nil {
			e := err.Error()
			code := errorCode(err)
			c.JSON(status(err), DepartmentListResponse{Error: &e, Code: &code})
			return
		}

		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, DepartmentListResponse{Data: data})
}

// @Summary		Get department
// @Description	Returns a specific department with its member set
// @Tags			Departments
// @Produce		json
// @Success		200	{object}	DepartmentResponse
// @Failure		400	{object}	DepartmentResponse
// @Failure		404	{object}	DepartmentResponse
// @Failure		500	{object}	DepartmentResponse
// @Param			id	path		uint64	true	"ID of the department"
// @Router			/v1/departments/{id} [get]
func GetDepartment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	department, err := getModelByID[models.Department](uri.ID)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	data, err := newDepartment(c, models.DB, department)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	c.JSON(http.StatusOK, DepartmentResponse{Data: &data})
}

// @Summary		Add member
// @Description	Adds a principal to the department's member set. Only the department admin may do this.
// @Tags			Departments
// @Accept			json
// @Produce		json
// @Success		201		{object}	DepartmentResponse
// @Failure		400		{object}	DepartmentResponse
// @Failure		401		{object}	DepartmentResponse
// @Failure		403		{object}	DepartmentResponse
// @Failure		404		{object}	DepartmentResponse
// @Failure		409		{object}	DepartmentResponse
// @Failure		500		{object}	DepartmentResponse
// @Param			id		path		uint64			true	"ID of the department"
// @Param			member	body		MemberEditable	true	"Member"
// @Router			/v1/departments/{id}/members [post]
func AddMember(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	department, err := getModelByID[models.Department](uri.ID)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	if caller != department.Admin {
		err := models.ErrNotDepartmentAdmin
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	var editable MemberEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	err = models.DB.Create(&models.DepartmentMember{
		DepartmentID: department.ID,
		Principal:    editable.Principal,
	}).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	events.MemberAdded(department.ID, editable.Principal)

	data, err := newDepartment(c, models.DB, department)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DepartmentResponse{Error: &e, Code: &code})
		return
	}

	c.JSON(http.StatusCreated, DepartmentResponse{Data: &data})
}

// @Summary		Remove member
// @Description	Removes a principal from the department's member set. Only the department admin may do this, and the admin itself cannot be removed.
// @Tags			Departments
// @Success		204
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		403			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		uint64	true	"ID of the department"
// @Param			principal	path		string	true	"Principal to remove"
// @Router			/v1/departments/{id}/members/{principal} [delete]
func RemoveMember(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	var uriPrincipal URIPrincipal
	err = c.ShouldBindUri(&uriPrincipal)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	department, err := getModelByID[models.Department](uri.ID)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	if caller != department.Admin {
		err := models.ErrNotDepartmentAdmin
		c.JSON(status(err), newHTTPError(err))
		return
	}

	if uriPrincipal.Principal == department.Admin {
		err := models.ErrAdminUnremovable
		c.JSON(status(err), newHTTPError(err))
		return
	}

	res := models.DB.
		Where(&models.DepartmentMember{
			DepartmentID: department.ID,
			Principal:    uriPrincipal.Principal,
		}).
		Delete(&models.DepartmentMember{})
	if res.Error != nil {
		c.JSON(status(res.Error), newHTTPError(res.Error))
		return
	}

	if res.RowsAffected == 0 {
		err := fmt.Errorf("%w department member matching your query", models.ErrResourceNotFound)
		c.JSON(status(err), newHTTPError(err))
		return
	}

	events.MemberRemoved(department.ID, uriPrincipal.Principal)

	c.JSON(http.StatusNoContent, nil)
}

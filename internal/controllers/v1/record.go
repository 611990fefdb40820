package v1

import (
	"net/http"

	"github.com/cipherledger/backend/internal/events"
	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/httputil"
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterRecordRoutes registers the routes for records with
// the RouterGroup that is passed.
func RegisterRecordRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsRecordList)
		r.GET("", GetRecords)
		r.POST("", CreateRecord)
	}

	// Record with ID
	{
		r.OPTIONS("/:id", OptionsRecordDetail)
		r.GET("/:id", GetRecord)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Records
// @Success		204
// @Router			/v1/records [options]
func OptionsRecordList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Records
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint64	true	"ID of the record"
// @Router			/v1/records/{id} [options]
func OptionsRecordDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), newHTTPError(err))
		return
	}

	_, err = getModelByID[models.Record](uri.ID)
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
// @Router			/v1/departments/{id}/records [options]
func OptionsDepartmentRecords(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Create record
// @Description	Creates a new financial record. The caller must be a member of the department. The amount is supplied as externally encrypted ciphertext with an inclusion proof and is stored as an opaque handle. Decrypt capabilities are granted to the creator and, if distinct, the department admin.
// @Tags			Records
// @Accept			json
// @Produce		json
// @Success		201		{object}	RecordResponse
// @Failure		400		{object}	RecordResponse
// @Failure		401		{object}	RecordResponse
// @Failure		403		{object}	RecordResponse
// @Failure		404		{object}	RecordResponse
// @Failure		422		{object}	RecordResponse
// @Failure		500		{object}	RecordResponse
// @Param			record	body		RecordEditable	true	"Record"
// @Router			/v1/records [post]
func CreateRecord(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	var editable RecordEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	department, err := getModelByID[models.Department](editable.DepartmentID)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	member, err := department.IsMember(models.DB, caller)
	if err == nil && !member {
		err = models.ErrNotDepartmentMember
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	// Verifies the inclusion proof and converts the external ciphertext
	// into an internal handle
	handle, err := fhe.Svc.FromExternal(editable.Ciphertext, editable.Proof)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	// Grants are issued before the record is stored: a failed creation
	// leaves an unreferenced handle behind, never a record whose grants
	// are missing.
	grantees := []string{caller}
	if department.Admin != caller {
		grantees = append(grantees, department.Admin)
	}

	for _, grantee := range grantees {
		err = fhe.Svc.Grant(handle, grantee)
		if err != nil {
			break
		}
	}
	if err == nil {
		err = fhe.Svc.GrantSelf(handle)
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	record := models.Record{
		Type:         editable.Type,
		Amount:       handle,
		DepartmentID: department.ID,
		ProjectID:    editable.ProjectID,
		Description:  editable.Description,
		Creator:      caller,
	}

	err = models.DB.Create(&record).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	// The event deliberately does not carry the amount
	events.RecordCreated(record.ID, string(record.Type), record.DepartmentID, record.Creator)

	data := newRecord(c, record)
	c.JSON(http.StatusCreated, RecordResponse{Data: &data})
}

// @Summary		Get record
// @Description	Returns a specific record. The caller must be a member of the record's department or a current auditor. The response contains the encrypted handle; decrypting it is a separate step gated by the grants issued at creation.
// @Tags			Records
// @Produce		json
// @Success		200	{object}	RecordResponse
// @Failure		400	{object}	RecordResponse
// @Failure		401	{object}	RecordResponse
// @Failure		403	{object}	RecordResponse
// @Failure		404	{object}	RecordResponse
// @Failure		500	{object}	RecordResponse
// @Param			id	path		uint64	true	"ID of the record"
// @Router			/v1/records/{id} [get]
func GetRecord(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	record, err := getModelByID[models.Record](uri.ID)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	ok, err := recordReadable(record, caller)
	if err == nil && !ok {
		err = models.ErrRecordNotReadable
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordResponse{Error: &e, Code: &code})
		return
	}

	data := newRecord(c, record)
	c.JSON(http.StatusOK, RecordResponse{Data: &data})
}

// recordReadable reports whether the caller may read the record: members
// of the record's department and current auditors may.
func recordReadable(record models.Record, caller string) (bool, error) {
	department, err := getModelByID[models.Department](record.DepartmentID)
	if err != nil {
		return false, err
	}

	member, err := department.IsMember(models.DB, caller)
	if err != nil {
		return false, err
	}

	if member {
		return true, nil
	}

	return models.IsAuditor(models.DB, caller)
}

// @Summary		Get all records
// @Description	Returns records across all departments in ascending creation order. Only auditors may call this.
// @Tags			Records
// @Produce		json
// @Success		200	{object}	RecordListResponse
// @Failure		401	{object}	RecordListResponse
// @Failure		403	{object}	RecordListResponse
// @Failure		500	{object}	RecordListResponse
// @Router			/v1/records [get]
// @Param			offset	query	uint	false	"The offset of the first record returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of records to return. Defaults to 50."
func GetRecords(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	auditor, err := models.IsAuditor(models.DB, caller)
	if err == nil && !auditor {
		err = models.ErrNotAuditor
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	listRecords(c, models.DB.Model(&models.Record{}))
}

// @Summary		Get department records
// @Description	Returns the department's records in ascending creation order. The caller must be a member of the department.
// @Tags			Departments
// @Produce		json
// @Success		200	{object}	RecordListResponse
// @Failure		400	{object}	RecordListResponse
// @Failure		401	{object}	RecordListResponse
// @Failure		403	{object}	RecordListResponse
// @Failure		404	{object}	RecordListResponse
// @Failure		500	{object}	RecordListResponse
// @Param			id	path	uint64	true	"ID of the department"
// @Router			/v1/departments/{id}/records [get]
// @Param			offset	query	uint	false	"The offset of the first record returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of records to return. Defaults to 50."
func GetDepartmentRecords(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	department, err := getModelByID[models.Department](uri.ID)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	member, err := department.IsMember(models.DB, caller)
	if err == nil && !member {
		err = models.ErrNotDepartmentMember
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	listRecords(c, models.DB.Model(&models.Record{}).Where(&models.Record{DepartmentID: department.ID}))
}

// listRecords applies the offset/limit query parameters to the prepared
// query and renders the list response. Records are always returned in
// ascending creation order.
func listRecords(c *gin.Context, q *gorm.DB) {
	var filter RecordQueryFilter

	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(http.StatusBadRequest, RecordListResponse{Error: &e, Code: &code})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Set the offset. Does not need checking since the default is 0
	q = q.Session(&gorm.Session{}).Order("id ASC").Offset(int(filter.Offset))

	// Default to 50 records and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var records []models.Record
	err := q.Find(&records).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), RecordListResponse{Error: &e, Code: &code})
		return
	}

	data := make([]Record, 0, len(records))
	for _, record := range records {
		data = append(data, newRecord(c, record))
	}

	c.JSON(http.StatusOK, RecordListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

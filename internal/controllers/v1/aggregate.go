package v1

import (
	"net/http"
	"time"

	"github.com/cipherledger/backend/internal/events"
	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/httputil"
	"github.com/cipherledger/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAggregateRoutes registers the routes for aggregates with
// the RouterGroup that is passed.
func RegisterAggregateRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAggregate)
	r.POST("", ComputeAggregate)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Aggregates
// @Success		204
// @Router			/v1/aggregates [options]
func OptionsAggregate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Compute aggregate
// @Description	Homomorphically sums the encrypted amounts of all records matching the filters. Any authenticated principal may request an aggregate; only decryption of the result is gated, by the grant issued exclusively to the caller. Net results use wrapping unsigned arithmetic, so negative values must be interpreted via the same width semantics after decryption.
// @Tags			Aggregates
// @Accept			json
// @Produce		json
// @Success		200			{object}	AggregateResponse
// @Failure		400			{object}	AggregateResponse
// @Failure		401			{object}	AggregateResponse
// @Failure		404			{object}	AggregateResponse
// @Failure		500			{object}	AggregateResponse
// @Param			aggregate	body		AggregateEditable	true	"Aggregate"
// @Router			/v1/aggregates [post]
func ComputeAggregate(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AggregateResponse{Error: &e, Code: &code})
		return
	}

	var editable AggregateEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AggregateResponse{Error: &e, Code: &code})
		return
	}

	err = models.DepartmentsExist(models.DB, editable.DepartmentIDs)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AggregateResponse{Error: &e, Code: &code})
		return
	}

	var result string
	switch editable.Kind {
	case AggregateIncome:
		result, err = sumRecords(models.RecordTypeIncome, editable.DepartmentIDs, editable.ProjectID)
	case AggregateExpense:
		result, err = sumRecords(models.RecordTypeExpense, editable.DepartmentIDs, editable.ProjectID)
	case AggregateNet:
		result, err = netIncome(editable.DepartmentIDs, editable.ProjectID)
	default:
		err = errAggregateKindInvalid
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AggregateResponse{Error: &e, Code: &code})
		return
	}

	// The result is granted to the caller only; the self grant keeps it
	// usable as input for further homomorphic operations
	err = fhe.Svc.Grant(result, caller)
	if err == nil {
		err = fhe.Svc.GrantSelf(result)
	}
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), AggregateResponse{Error: &e, Code: &code})
		return
	}

	events.AggregateComputed(string(editable.Kind), len(editable.DepartmentIDs), caller)

	data := Aggregate{
		AggregateEditable: editable,
		Result:            result,
		ComputedAt:        time.Now().In(time.UTC),
	}

	c.JSON(http.StatusOK, AggregateResponse{Data: &data})
}

// sumRecords folds the encrypted amounts of all matching records into a
// fresh encrypted zero. Only plaintext metadata decides whether a record
// is included; the amounts stay opaque throughout.
func sumRecords(t models.RecordType, departmentIDs []uint64, projectID uint64) (string, error) {
	handles, err := models.RecordAmounts(models.DB, t, departmentIDs, projectID)
	if err != nil {
		return "", err
	}

	acc, err := fhe.Svc.Zero()
	if err != nil {
		return "", err
	}

	for _, handle := range handles {
		acc, err = fhe.Svc.Add(acc, handle)
		if err != nil {
			return "", err
		}
	}

	return acc, nil
}

// netIncome composes the two total sums over the same filters and
// subtracts expense from income.
func netIncome(departmentIDs []uint64, projectID uint64) (string, error) {
	income, err := sumRecords(models.RecordTypeIncome, departmentIDs, projectID)
	if err != nil {
		return "", err
	}

	expense, err := sumRecords(models.RecordTypeExpense, departmentIDs, projectID)
	if err != nil {
		return "", err
	}

	return fhe.Svc.Sub(income, expense)
}

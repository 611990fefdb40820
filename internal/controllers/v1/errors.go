package v1

import (
	"errors"
	"net/http"

	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no department matching your query"` // Human readable error message
	Code  string `json:"code" example:"not_found"`                                   // Stable machine checkable reason
}

func newHTTPError(err error) httpError {
	return httpError{
		Error: err.Error(),
		Code:  errorCode(err),
	}
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrNoPrincipal):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, fhe.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrResourceNotFound), errors.Is(err, fhe.ErrValueNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, fhe.ErrProofVerification):
		return http.StatusUnprocessableEntity
	}

	return http.StatusBadRequest
}

// errorCode returns the stable machine checkable reason for an error
func errorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return "internal"
	case errors.Is(err, models.ErrNoPrincipal):
		return "no_principal"
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, fhe.ErrNotAuthorized):
		return "unauthorized"
	case errors.Is(err, models.ErrResourceNotFound), errors.Is(err, fhe.ErrValueNotFound):
		return "not_found"
	case errors.Is(err, models.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, fhe.ErrProofVerification):
		return "proof_verification_failed"
	}

	return "invalid_argument"
}

// Aggregate errors
var errAggregateKindInvalid = errors.New("the aggregate kind must be income, expense or net")

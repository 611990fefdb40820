package v1

import (
	"net/http"

	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterDecryptRoutes registers the decryption route with
// the RouterGroup that is passed.
//
// Decryption is conceptually a client-side operation against the grant
// state; this endpoint stands in for the client runtime of the local
// encryption service.
func RegisterDecryptRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsDecrypt)
	r.POST("", Decrypt)
}

// DecryptEditable represents all user configurable parameters
type DecryptEditable struct {
	Handle string `json:"handle" default:""` // Handle of the encrypted value to decrypt
}

type DecryptResult struct {
	Handle string `json:"handle"`               // Handle of the decrypted value
	Value  uint64 `json:"value" example:"3000"` // Plaintext value, width semantics are unsigned 64 bit with wrapping
}

type DecryptResponse struct {
	Data  *DecryptResult `json:"data"`                                                            // The decrypted value
	Error *string        `json:"error" example:"you do not have a decrypt capability for this value"` // The error, if any occurred
	Code  *string        `json:"code" example:"unauthorized"`                                     // Stable machine checkable reason, if an error occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Decrypt
// @Success		204
// @Router			/v1/decrypt [options]
func OptionsDecrypt(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Decrypt value
// @Description	Recovers the plaintext behind a handle for a caller holding a decrypt grant on it.
// @Tags			Decrypt
// @Accept			json
// @Produce		json
// @Success		200		{object}	DecryptResponse
// @Failure		400		{object}	DecryptResponse
// @Failure		401		{object}	DecryptResponse
// @Failure		403		{object}	DecryptResponse
// @Failure		404		{object}	DecryptResponse
// @Failure		500		{object}	DecryptResponse
// @Param			handle	body		DecryptEditable	true	"Handle"
// @Router			/v1/decrypt [post]
func Decrypt(c *gin.Context) {
	caller, err := requirePrincipal(c)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DecryptResponse{Error: &e, Code: &code})
		return
	}

	var editable DecryptEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DecryptResponse{Error: &e, Code: &code})
		return
	}

	value, err := fhe.Svc.UserDecrypt(editable.Handle, caller)
	if err != nil {
		e := err.Error()
		code := errorCode(err)
		c.JSON(status(err), DecryptResponse{Error: &e, Code: &code})
		return
	}

	c.JSON(http.StatusOK, DecryptResponse{
		Data: &DecryptResult{
			Handle: editable.Handle,
			Value:  value,
		},
	})
}

package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code     string `json:"error_code"`
	Message  string `json:"message"`
	RecordID *uint  `json:"record_id,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func PaymentRequired(c *gin.Context, code, message string) {
	Write(c, http.StatusPaymentRequired, code, message)
}

// Unprocessable reports a rule violation tied to one record of a batch.
func Unprocessable(c *gin.Context, code, message string, recordID uint) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, HTTPError{
		Code:     code,
		Message:  message,
		RecordID: &recordID,
	})
}

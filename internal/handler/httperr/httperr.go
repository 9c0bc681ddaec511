package httperr

import (
	"github.com/gin-gonic/gin"
)

// Machine readable reasons carried in the "code" field.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeEventNotAvailable  = "event_not_available"
	CodeServiceUnavailable = "service_unavailable"
	CodeNotFound           = "not_found"
	CodeInvalidTransition  = "invalid_transition"
	CodeInternal           = "internal_error"
)

type Response struct {
	Status int    `json:"-"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

func NewResponse(status int, code, msg string) Response {
	return Response{Status: status, Error: msg, Code: code}
}

// preserves original error for the request log
func AbortWithError(c *gin.Context, status int, err error, code, msg string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, code, msg)

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

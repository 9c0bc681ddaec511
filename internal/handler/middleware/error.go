package middleware

import (
	"log/slog"
	"net/http"

	"booking-service/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

var internalError = httperr.NewResponse(http.StatusInternalServerError, httperr.CodeInternal, "Internal server error")

// ErrorHandler renders errors that a handler recorded without writing a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		if public := c.Errors.ByType(gin.ErrorTypePublic); len(public) > 0 {
			if resp, ok := public.Last().Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		c.JSON(http.StatusInternalServerError, internalError)
	}
}

// CustomRecovery turns a panic into a 500 without leaking the panic value.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(c.Request.Context(), "recovered from panic",
					"panic", rec,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c))
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError)
			}
		}()
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code"`
	Details map[string]string   `json:"details,omitempty"`
}

// RespondError writes err as an ErrorResponse and aborts the chain. Server
// errors are logged with their cause; the client only sees the message.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperrors.From(err)
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("code", string(appErr.Code)),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Fields,
	})
}

// Recovery turns panics into a logged 500 response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(RequestIDKey)),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "internal server error",
					Code:  apperrors.CodeInternal,
				})
			}
		}()
		c.Next()
	}
}

package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/middleware"
)

// bindJSON decodes the request body into obj and runs its binding rules.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperrors.NewFieldValidationError(err)
	}
	return nil
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	middleware.RespondError(c, logger, err)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid recipe id")
	}
	return uint(id), nil
}

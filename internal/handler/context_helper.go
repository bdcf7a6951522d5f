package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/middleware"
	"github.com/pawsched/pawsched-api/internal/models"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
	"github.com/pawsched/pawsched-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext returns the verified caller; an empty actor is rejected by the services.
func actorFromContext(c *gin.Context) models.Actor {
	return claimsFromContext(c).Actor()
}

// bindJSON decodes the request body, writing a validation error on failure.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func validationMissing(field string) error {
	return appErrors.WithDetails(appErrors.ErrValidation, field+" is required", map[string]string{"field": field})
}

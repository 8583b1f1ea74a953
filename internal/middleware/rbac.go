package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
	"github.com/noah-isme/edt-api/pkg/response"
)

// Role groups used by the router.
var (
	// Planners may generate and edit timetables.
	Planners = []models.UserRole{models.RoleAdmin, models.RoleChef}
	// Readers may consult timetables and the catalog.
	Readers = []models.UserRole{models.RoleAdmin, models.RoleChef, models.RoleProfessor}
)

// RequireRoles rejects callers whose role is not listed. JWT must run first.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

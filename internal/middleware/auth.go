package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/projecthub/internal/constants"
	apierrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/services"
	"github.com/projecthub/projecthub/internal/utils"
)

// RequireAuth validates the bearer token and loads the authenticated
// user into the request context. Deactivated accounts are rejected
// here; authorization downstream assumes an active principal.
func RequireAuth(tokens *utils.TokenManager, authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		user, err := authService.GetUser(userID)
		if err != nil {
			apierrors.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}
		if !user.IsActive {
			apierrors.Unauthorized(c, "Inactive user")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, false
	}
	return user, true
}

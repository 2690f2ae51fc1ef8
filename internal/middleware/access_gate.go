package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/constants"
	"github.com/grantbridge/grant-management-api/internal/database"
	apierrors "github.com/grantbridge/grant-management-api/internal/errors"
	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// LoadSessionContext builds the per-request identity snapshot the access
// gate evaluates against. It runs after RequireAuth and re-reads the
// organization status on every request, because a reviewer decision can
// change it while the partner's client is idle.
func LoadSessionContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "Unknown user")
			c.Abort()
			return
		}

		sess := workflow.SessionContext{
			Authenticated: true,
			Role:          user.Role,
			EmailVerified: user.EmailVerified,
		}

		if user.Role == workflow.RolePartner {
			var org models.Organization
			err := database.GetDB().Where("owner_id = ?", userID).First(&org).Error
			switch {
			case err == nil:
				sess.OrgStatus = org.Status
				c.Set("organization", org)
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Partner without an organization row; the status gates
				// will redirect to the start of onboarding.
			default:
				apierrors.InternalError(c, "Failed to load organization")
				c.Abort()
				return
			}
		}

		c.Set(constants.ContextKeySession, sess)
		c.Next()
	}
}

// GetSessionContext retrieves the identity snapshot from context
func GetSessionContext(c *gin.Context) (workflow.SessionContext, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return workflow.SessionContext{}, false
	}
	sess, ok := value.(workflow.SessionContext)
	return sess, ok
}

// RequireDestination gates the request with the pure access-gate
// evaluation; on denial it responds with the canonical redirect path.
func RequireDestination(dest workflow.Destination) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSessionContext(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		result := workflow.EvaluateGate(sess, dest)
		if !result.Allowed {
			apierrors.ForbiddenWithRedirect(c, "", result.Redirect)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePartnerStatus gates a partner onboarding route on the
// organization's current status.
func RequirePartnerStatus(requireVerified bool, statuses ...workflow.Status) gin.HandlerFunc {
	return RequireDestination(workflow.Destination{
		RequiredRole:    workflow.RolePartner,
		RequireVerified: requireVerified,
		RequiredStatus:  statuses,
	})
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/grantbridge/grant-management-api/internal/errors"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// queueRoles maps the :role path segment to the reviewer role it names.
var queueRoles = map[string]workflow.Role{
	"gm":  workflow.RoleGrantsManager,
	"coo": workflow.RoleChiefOperations,
}

// ContextKeyQueueRole is the gin-context key for the resolved queue role.
const ContextKeyQueueRole = "queue_role"

// ResolveQueueRole resolves the :role path parameter to a reviewer role
// and checks the caller may act on that queue. Reviewers only touch
// their own queue; admins may read any queue but never decide.
func ResolveQueueRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := queueRoles[c.Param("role")]
		if !ok {
			apierrors.NotFound(c, "Unknown review queue")
			c.Abort()
			return
		}

		sess, exists := GetSessionContext(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if sess.Role != role {
			adminRead := sess.Role == workflow.RoleAdmin && c.Request.Method == http.MethodGet
			if !adminRead {
				apierrors.ForbiddenWithRedirect(c, "", workflow.RoleLanding(sess.Role))
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyQueueRole, role)
		c.Next()
	}
}

// GetQueueRole retrieves the resolved queue role from context
func GetQueueRole(c *gin.Context) (workflow.Role, bool) {
	value, exists := c.Get(ContextKeyQueueRole)
	if !exists {
		return "", false
	}
	role, ok := value.(workflow.Role)
	return role, ok
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/grantbridge/grant-management-api/internal/errors"
	"github.com/grantbridge/grant-management-api/internal/middleware"
	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// SessionHandler exposes the identity snapshot consumed by route guards.
type SessionHandler struct{}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// GetSession returns the caller's role, email verification state and,
// for partners, their organization's current status. Clients re-fetch
// this on navigation; it is never cached server-side.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := middleware.GetSessionContext(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	response := gin.H{
		"role":           sess.Role,
		"email_verified": sess.EmailVerified,
		"landing":        workflow.RoleLanding(sess.Role),
	}

	if orgValue, exists := c.Get("organization"); exists {
		if org, ok := orgValue.(models.Organization); ok {
			response["organization"] = gin.H{
				"id":     org.ID,
				"status": org.Status,
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

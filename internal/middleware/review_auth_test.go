package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/workflow"
)

func setupQueueRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	r, db := setupMiddlewareRouter(t)
	queue := r.Group("/api/queue")
	queue.Use(RequireAuth(workflow.PathStaffLogin), LoadSessionContext(), ResolveQueueRole())
	{
		queue.GET("/:role", func(c *gin.Context) { c.Status(http.StatusOK) })
		queue.POST("/:role/:id/decision", func(c *gin.Context) { c.Status(http.StatusOK) })
	}
	return r, db
}

func TestResolveQueueRole_UnknownQueue(t *testing.T) {
	r, db := setupQueueRouter(t)

	user := createGateUser(t, db, "gm@example.org", workflow.RoleGrantsManager, true, "")
	cookies := loginAs(t, r, user.ID)

	w := doRequest(t, r, http.MethodGet, "/api/queue/bogus", cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// Reviewers only touch their own queue; a mismatch lands them on their
// own home.
func TestResolveQueueRole_WrongReviewerDenied(t *testing.T) {
	r, db := setupQueueRouter(t)

	user := createGateUser(t, db, "gm@example.org", workflow.RoleGrantsManager, true, "")
	cookies := loginAs(t, r, user.ID)

	w := doRequest(t, r, http.MethodGet, "/api/queue/coo", cookies)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, workflow.PathGMHome, decodeAPIError(t, w).Redirect)
}

// Admins may read any queue but decisions belong to the reviewer.
func TestResolveQueueRole_AdminReadsButCannotDecide(t *testing.T) {
	r, db := setupQueueRouter(t)

	user := createGateUser(t, db, "admin@example.org", workflow.RoleAdmin, true, "")
	cookies := loginAs(t, r, user.ID)

	w := doRequest(t, r, http.MethodGet, "/api/queue/gm", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/queue/gm/1/decision", cookies)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, workflow.PathAdminHome, decodeAPIError(t, w).Redirect)
}

func TestResolveQueueRole_ReviewerReachesOwnQueue(t *testing.T) {
	r, db := setupQueueRouter(t)

	user := createGateUser(t, db, "coo@example.org", workflow.RoleChiefOperations, true, "")
	cookies := loginAs(t, r, user.ID)

	w := doRequest(t, r, http.MethodGet, "/api/queue/coo", cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

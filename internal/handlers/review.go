package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grantbridge/grant-management-api/internal/dto"
	apierrors "github.com/grantbridge/grant-management-api/internal/errors"
	"github.com/grantbridge/grant-management-api/internal/middleware"
	"github.com/grantbridge/grant-management-api/internal/services"
	"github.com/grantbridge/grant-management-api/internal/utils"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// ReviewHandler coordinates the reviewer-facing queue endpoints.
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// GetQueue lists the organizations awaiting the queue's reviewer role,
// with aging annotations and a summary. Pagination applies to the items
// only; the summary always covers the whole queue.
func (h *ReviewHandler) GetQueue(c *gin.Context) {
	role, exists := middleware.GetQueueRole(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	items, summary, err := h.reviewService.Queue(role)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	queue := dto.ToQueueDTO(items, summary)

	params := utils.GetPaginationParams(c)
	total := int64(len(queue.Items))
	lo, hi := params.Bounds(len(queue.Items))

	c.JSON(http.StatusOK, gin.H{
		"items":   queue.Items[lo:hi],
		"summary": queue.Summary,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// PostDecision applies the reviewer's decision to one organization.
func (h *ReviewHandler) PostDecision(c *gin.Context) {
	role, exists := middleware.GetQueueRole(c)
	if !exists {
		apierrors.Forbidden(c, "")
		return
	}

	sess, _ := middleware.GetSessionContext(c)
	if sess.Role != role {
		// Admins can read queues but decisions belong to the reviewer.
		apierrors.Forbidden(c, "Only the queue's reviewer may decide")
		return
	}

	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	type DecisionRequest struct {
		Decision workflow.Outcome `json:"decision" binding:"required"`
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reviewService.Decide(c.Request.Context(), orgID, role, req.Decision)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDecisionResultDTO(*result))
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrNotReviewer):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidOutcome):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

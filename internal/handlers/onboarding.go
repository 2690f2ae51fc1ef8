package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantbridge/grant-management-api/internal/dto"
	apierrors "github.com/grantbridge/grant-management-api/internal/errors"
	"github.com/grantbridge/grant-management-api/internal/middleware"
	"github.com/grantbridge/grant-management-api/internal/services"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// OnboardingHandler coordinates the partner-facing onboarding endpoints.
type OnboardingHandler struct {
	onboardingService *services.OnboardingService
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingService *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService: onboardingService,
	}
}

// VerifyEmail confirms the partner's verification token and advances
// the organization to Section A.
func (h *OnboardingHandler) VerifyEmail(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type VerifyEmailRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.onboardingService.VerifyEmail(userID, req.Token)
	if err != nil {
		respondOnboardingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// SubmitSectionA records the organization profile.
func (h *OnboardingHandler) SubmitSectionA(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SectionARequest struct {
		Name    string `json:"name" binding:"required,max=255"`
		Sector  string `json:"sector" binding:"max=100"`
		Country string `json:"country" binding:"max=100"`
	}

	var req SectionARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.onboardingService.SubmitSectionA(userID, services.SectionAInput{
		Name:    req.Name,
		Sector:  req.Sector,
		Country: req.Country,
	})
	if err != nil {
		respondOnboardingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// SubmitSectionB records the program narrative.
func (h *OnboardingHandler) SubmitSectionB(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SectionBRequest struct {
		Mission string `json:"mission" binding:"required"`
		Website string `json:"website" binding:"max=255"`
	}

	var req SectionBRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.onboardingService.SubmitSectionB(userID, services.SectionBInput{
		Mission: req.Mission,
		Website: req.Website,
	})
	if err != nil {
		respondOnboardingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// SubmitSectionC declares the supporting documents and submits the
// organization for review.
func (h *OnboardingHandler) SubmitSectionC(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SectionCRequest struct {
		DocumentCount int `json:"document_count" binding:"min=0"`
	}

	var req SectionCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.onboardingService.SubmitSectionC(userID, services.SectionCInput{
		DocumentCount: req.DocumentCount,
	})
	if err != nil {
		respondOnboardingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// Restart acknowledges a changes_requested decision and re-enters the
// pipeline at Section A.
func (h *OnboardingHandler) Restart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	org, err := h.onboardingService.Restart(userID)
	if err != nil {
		respondOnboardingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// GetStatus returns the organization's current status and the canonical
// page for it, so the client always has a next step.
func (h *OnboardingHandler) GetStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	org, err := h.onboardingService.GetOrganization(userID)
	if err != nil {
		respondOnboardingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     org.Status,
		"next_path":  workflow.RedirectPathForStatus(org.Status),
		"updated_at": org.UpdatedAt,
	})
}

func respondOnboardingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMissingFields):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

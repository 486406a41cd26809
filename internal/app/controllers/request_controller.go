package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// markReadFunc marks a set of notifications read for a user and returns how many changed
type markReadFunc func(ctx context.Context, userID int64) (int64, error)

func respondMarkRead(ctx *gin.Context, mark markReadFunc) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	n, err := mark(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{Count: n}))
}

// RequestController handles applications to join projects
type RequestController struct {
	requestService services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// Apply files an application to join a project
// @Summary Apply to project
// @Tags projects-page
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyRequest true "Project to join"
// @Success 201 {object} dto.APIResponse{data=models.ProjectRequest}
// @Failure 400 {object} dto.ErrorResponse "You own this project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Already a collaborator or application pending"
// @Router /projects-page/apply [post]
func (c *RequestController) Apply(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.Apply(ctx.Request.Context(), userID, req.ProjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(request))
}

// Accept admits an applicant as a collaborator
// @Summary Accept application
// @Description Owner or admin only
// @Tags projects-page
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RequestActionRequest true "Application"
// @Success 200 {object} dto.APIResponse{data=models.ProjectRequest}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already processed"
// @Router /projects-page/accept-project-request [post]
func (c *RequestController) Accept(ctx *gin.Context) {
	c.resolve(ctx, c.requestService.Accept)
}

// Decline rejects an application
// @Summary Decline application
// @Description Owner or admin only
// @Tags projects-page
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RequestActionRequest true "Application"
// @Success 200 {object} dto.APIResponse{data=models.ProjectRequest}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already processed"
// @Router /projects-page/decline-project-request [post]
func (c *RequestController) Decline(ctx *gin.Context) {
	c.resolve(ctx, c.requestService.Decline)
}

func (c *RequestController) resolve(ctx *gin.Context, action func(context.Context, int64, int64) (*models.ProjectRequest, error)) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.RequestActionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := action(ctx.Request.Context(), req.RequestID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// ApplicationsReceived lists applications to projects the caller owns or administers
// @Summary Applications received
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectRequest}
// @Router /projects-page/applications-received [get]
func (c *RequestController) ApplicationsReceived(ctx *gin.Context) {
	c.list(ctx, c.requestService.ListReceived, false)
}

// UnreadApplicationsReceived lists received applications not yet seen
// @Summary Unread applications received
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectRequest}
// @Router /projects-page/fetch-unread-applications-received [get]
func (c *RequestController) UnreadApplicationsReceived(ctx *gin.Context) {
	c.list(ctx, c.requestService.ListReceived, true)
}

// ApplicationsSent lists the caller's applications
// @Summary Applications sent
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectRequest}
// @Router /projects-page/applications-sent [get]
func (c *RequestController) ApplicationsSent(ctx *gin.Context) {
	c.list(ctx, c.requestService.ListSent, false)
}

// UnreadApplicationsSent lists the caller's applications answered since last seen
// @Summary Unread applications sent
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectRequest}
// @Router /projects-page/fetch-unread-applications-sent [get]
func (c *RequestController) UnreadApplicationsSent(ctx *gin.Context) {
	c.list(ctx, c.requestService.ListSent, true)
}

func (c *RequestController) list(ctx *gin.Context, fetch func(context.Context, int64, bool) ([]*models.ProjectRequest, error), unreadOnly bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	requests, err := fetch(ctx.Request.Context(), userID, unreadOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// MarkApplicationsRead marks received applications read
// @Summary Mark received applications read
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /projects-page/mark-applications-read [post]
func (c *RequestController) MarkApplicationsRead(ctx *gin.Context) {
	respondMarkRead(ctx, c.requestService.MarkReceivedRead)
}

// MarkApplicationsSentRead marks the caller's applications read
// @Summary Mark sent applications read
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /projects-page/mark-applications-sent-read [post]
func (c *RequestController) MarkApplicationsSentRead(ctx *gin.Context) {
	respondMarkRead(ctx, c.requestService.MarkSentRead)
}

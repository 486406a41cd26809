package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// InviteController handles project invites
type InviteController struct {
	inviteService services.InviteService
}

// NewInviteController creates a new InviteController
func NewInviteController(inviteService services.InviteService) *InviteController {
	return &InviteController{
		inviteService: inviteService,
	}
}

// SendInvite invites a user to a project
// @Summary Send invite
// @Description Owner or admin only. The invite expires after the configured TTL.
// @Tags project-invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendInviteRequest true "Invite"
// @Success 201 {object} dto.APIResponse{data=models.ProjectInvite}
// @Failure 400 {object} dto.ErrorResponse "Receiver is the owner or the sender"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Project or user not found"
// @Failure 409 {object} dto.ErrorResponse "Already a collaborator or invite pending"
// @Router /project-invites/send-invite [post]
func (c *InviteController) SendInvite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendInviteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	invite, err := c.inviteService.SendInvite(ctx.Request.Context(), userID, req.ProjectID, req.ReceiverID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(invite))
}

// ListReceived lists invites addressed to the caller
// @Summary Received invites
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectInvite}
// @Router /project-invites [get]
func (c *InviteController) ListReceived(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	invites, err := c.inviteService.ListReceived(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invites))
}

// ListSent lists invites the caller sent
// @Summary Sent invites
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectInvite}
// @Router /project-invites/sent [get]
func (c *InviteController) ListSent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	invites, err := c.inviteService.ListSent(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invites))
}

// GetInvite returns one invite to its sender or receiver
// @Summary Get invite
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invite ID"
// @Success 200 {object} dto.APIResponse{data=models.ProjectInvite}
// @Failure 403 {object} dto.ErrorResponse "Not part of this invite"
// @Failure 404 {object} dto.ErrorResponse "Invite not found"
// @Router /project-invites/{id} [get]
func (c *InviteController) GetInvite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	inviteID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	invite, err := c.inviteService.GetInvite(ctx.Request.Context(), inviteID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invite))
}

// RespondInvite accepts or rejects an invite
// @Summary Respond to invite
// @Description Receiver only. The invite is consumed either way. Expired invites are removed and answered with 410.
// @Tags project-invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invite ID"
// @Param request body dto.RespondInviteRequest true "accepted or rejected"
// @Success 200 {object} dto.APIResponse{data=models.ProjectInvite}
// @Failure 403 {object} dto.ErrorResponse "Not the receiver"
// @Failure 404 {object} dto.ErrorResponse "Invite not found"
// @Failure 410 {object} dto.ErrorResponse "Invite has expired"
// @Router /project-invites/{id} [patch]
func (c *InviteController) RespondInvite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	inviteID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondInviteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	invite, err := c.inviteService.RespondInvite(ctx.Request.Context(), inviteID, userID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(invite))
}

// DeleteInvite withdraws or dismisses an invite
// @Summary Delete invite
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invite ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not part of this invite"
// @Failure 404 {object} dto.ErrorResponse "Invite not found"
// @Router /project-invites/{id} [delete]
func (c *InviteController) DeleteInvite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	inviteID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.inviteService.DeleteInvite(ctx.Request.Context(), inviteID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Invite deleted"}))
}

// UnreadCount counts unseen pending invites
// @Summary Unread invite count
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /project-invites/unread-count [get]
func (c *InviteController) UnreadCount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	count, err := c.inviteService.UnreadCount(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{Count: count}))
}

// MarkAllRead marks every received invite read
// @Summary Mark received invites read
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse} "Number of invites updated"
// @Router /project-invites/mark-all-invites-read [post]
func (c *InviteController) MarkAllRead(ctx *gin.Context) {
	respondMarkRead(ctx, c.inviteService.MarkAllRead)
}

// MarkAllSentRead marks every sent invite read
// @Summary Mark sent invites read
// @Tags project-invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse} "Number of invites updated"
// @Router /project-invites/mark-all-sent-invites-read [post]
func (c *InviteController) MarkAllSentRead(ctx *gin.Context) {
	respondMarkRead(ctx, c.inviteService.MarkAllSentRead)
}

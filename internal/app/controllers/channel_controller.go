package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/realtime"
)

// ChannelController handles project channels, their messages and live subscriptions
type ChannelController struct {
	channelService services.ChannelService
	messageService services.MessageService
	realtime       *realtime.Handler
}

// NewChannelController creates a new ChannelController
func NewChannelController(channelService services.ChannelService, messageService services.MessageService, rt *realtime.Handler) *ChannelController {
	return &ChannelController{
		channelService: channelService,
		messageService: messageService,
		realtime:       rt,
	}
}

// ListChannels lists the channels of a project
// @Summary List channels
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Channel}
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{projectId}/channels [get]
func (c *ChannelController) ListChannels(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	channels, err := c.channelService.ListChannels(ctx.Request.Context(), projectID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(channels))
}

// CreateChannel creates a channel
// @Summary Create channel
// @Description Requires canCreateChannel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param request body dto.CreateChannelRequest true "Channel"
// @Success 201 {object} dto.APIResponse{data=models.Channel}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Channel name already used"
// @Router /projects/{projectId}/channels [post]
func (c *ChannelController) CreateChannel(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	var req dto.CreateChannelRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	channel, err := c.channelService.CreateChannel(ctx.Request.Context(), projectID, userID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(channel))
}

// DeleteChannel deletes a channel and all its messages
// @Summary Delete channel
// @Description Requires canRemoveChannel. Returns the number of messages removed.
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param channelId path int true "Channel ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteChannelResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /projects/{projectId}/channels/{channelId}/deleteChannel [delete]
func (c *ChannelController) DeleteChannel(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	channelID, ok := middleware.ParamID(ctx, "channelId")
	if !ok {
		return
	}

	deleted, err := c.channelService.DeleteChannel(ctx.Request.Context(), projectID, channelID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DeleteChannelResponse{DeletedMessagesCount: deleted}))
}

// ListMessages returns channel messages oldest first
// @Summary List channel messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param channelId path int true "Channel ID"
// @Param limit query int false "Maximum number of messages" default(50)
// @Param before query string false "Only messages before this RFC3339 timestamp"
// @Success 200 {object} dto.APIResponse{data=[]models.Message}
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /projects/{projectId}/channels/{channelId}/messages [get]
func (c *ChannelController) ListMessages(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	channelID, ok := middleware.ParamID(ctx, "channelId")
	if !ok {
		return
	}
	page, ok := parseMessagePage(ctx)
	if !ok {
		return
	}

	messages, err := c.messageService.ListMessages(ctx.Request.Context(), projectID, channelID, userID, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// SendMessage posts a message to a channel
// @Summary Send channel message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param channelId path int true "Channel ID"
// @Param request body dto.MessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.Message}
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /projects/{projectId}/channels/{channelId}/messages [post]
func (c *ChannelController) SendMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	channelID, ok := middleware.ParamID(ctx, "channelId")
	if !ok {
		return
	}

	var req dto.MessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.messageService.SendMessage(ctx.Request.Context(), projectID, channelID, userID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// EditMessage changes the content of the caller's message
// @Summary Edit channel message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Param request body dto.MessageRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=models.Message}
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /messages/{messageId} [put]
func (c *ChannelController) EditMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	messageID, ok := middleware.ParamID(ctx, "messageId")
	if !ok {
		return
	}

	var req dto.MessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.messageService.EditMessage(ctx.Request.Context(), messageID, userID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message))
}

// DeleteMessage deletes a channel message
// @Summary Delete channel message
// @Description Allowed for the author and for the project's owner or admins
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /messages/{messageId} [delete]
func (c *ChannelController) DeleteMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	messageID, ok := middleware.ParamID(ctx, "messageId")
	if !ok {
		return
	}

	if err := c.messageService.DeleteMessage(ctx.Request.Context(), messageID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Message deleted"}))
}

// Subscribe upgrades to a websocket streaming the channel's message changes
// @Summary Subscribe to channel messages
// @Description WebSocket. Each frame is a JSON event {eventType, table, topic, new, old}. The token may be passed as ?token=.
// @Tags channels
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param channelId path int true "Channel ID"
// @Param token query string false "JWT for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Channel not found"
// @Router /projects/{projectId}/channels/{channelId}/subscribe [get]
func (c *ChannelController) Subscribe(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	channelID, ok := middleware.ParamID(ctx, "channelId")
	if !ok {
		return
	}

	topic, err := c.channelService.SubscriptionTopic(ctx.Request.Context(), projectID, channelID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.realtime.Serve(ctx, topic, userID)
}

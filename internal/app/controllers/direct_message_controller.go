package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/realtime"
)

// DirectMessageController handles one-to-one conversations
type DirectMessageController struct {
	dmService services.DirectMessageService
	realtime  *realtime.Handler
}

// NewDirectMessageController creates a new DirectMessageController
func NewDirectMessageController(dmService services.DirectMessageService, rt *realtime.Handler) *DirectMessageController {
	return &DirectMessageController{
		dmService: dmService,
		realtime:  rt,
	}
}

// ListConversations lists the caller's conversation partners
// @Summary List conversations
// @Description One entry per partner with the latest message and the unread count
// @Tags direct-messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Conversation}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /direct-messages [get]
func (c *DirectMessageController) ListConversations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	conversations, err := c.dmService.ListConversations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversations))
}

// GetConversation returns the messages exchanged with a user and marks the incoming ones read
// @Summary Get conversation
// @Tags direct-messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Partner user ID"
// @Param limit query int false "Maximum number of messages" default(50)
// @Param before query string false "Only messages before this RFC3339 timestamp"
// @Success 200 {object} dto.APIResponse{data=[]models.DirectMessage}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /direct-messages/users/{userId} [get]
func (c *DirectMessageController) GetConversation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	partnerID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}
	page, ok := parseMessagePage(ctx)
	if !ok {
		return
	}

	messages, err := c.dmService.GetConversation(ctx.Request.Context(), userID, partnerID, page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// SendMessage sends a direct message
// @Summary Send direct message
// @Tags direct-messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Recipient user ID"
// @Param request body dto.MessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.DirectMessage}
// @Failure 400 {object} dto.ErrorResponse "Cannot message yourself"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /direct-messages/users/{userId} [post]
func (c *DirectMessageController) SendMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	recipientID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}

	var req dto.MessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.dmService.SendMessage(ctx.Request.Context(), userID, recipientID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// EditMessage changes a direct message the caller sent
// @Summary Edit direct message
// @Tags direct-messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Param request body dto.MessageRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=models.DirectMessage}
// @Failure 403 {object} dto.ErrorResponse "Not the sender"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /direct-messages/messages/{messageId} [put]
func (c *DirectMessageController) EditMessage(ctx *gin.Context) {
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

	message, err := c.dmService.EditMessage(ctx.Request.Context(), messageID, userID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message))
}

// DeleteMessage deletes a direct message the caller sent
// @Summary Delete direct message
// @Tags direct-messages
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the sender"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /direct-messages/messages/{messageId} [delete]
func (c *DirectMessageController) DeleteMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	messageID, ok := middleware.ParamID(ctx, "messageId")
	if !ok {
		return
	}

	if err := c.dmService.DeleteMessage(ctx.Request.Context(), messageID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Message deleted"}))
}

// Subscribe upgrades to a websocket streaming the conversation's message changes
// @Summary Subscribe to a conversation
// @Description WebSocket. Each frame is a JSON event {eventType, table, topic, new, old}.
// @Tags direct-messages
// @Security BearerAuth
// @Param userId path int true "Partner user ID"
// @Param token query string false "JWT for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /direct-messages/users/{userId}/subscribe [get]
func (c *DirectMessageController) Subscribe(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	partnerID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}

	topic, err := c.dmService.SubscriptionTopic(ctx.Request.Context(), userID, partnerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.realtime.Serve(ctx, topic, userID)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/collabhub/internal/app/controllers"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/pkg/validation"
)

// Controllers groups every HTTP controller the router mounts
type Controllers struct {
	Auth          *controllers.AuthController
	User          *controllers.UserController
	Project       *controllers.ProjectController
	Collaborator  *controllers.CollaboratorController
	Channel       *controllers.ChannelController
	DirectMessage *controllers.DirectMessageController
	Invite        *controllers.InviteController
	Request       *controllers.RequestController
	Notification  *controllers.NotificationController
}

// RegisterValidations installs the custom binding tags on gin's validator
func RegisterValidations() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return validation.RegisterCustomValidations(v)
	}
	return nil
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public routes ---
	api.POST("/signup", c.Auth.Signup)
	api.POST("/login", c.Auth.Login)
	api.POST("/check-user", c.Auth.CheckUser)
	api.GET("/users/:userId", c.User.GetUserByID)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/delete-account", c.Auth.DeleteAccount)

		settings := authenticated.Group("/user-settings")
		{
			settings.GET("/edit-profile", c.User.GetProfile)
			settings.PATCH("/edit-profile", c.User.UpdateProfile)
			settings.POST("/profile-image", c.User.UploadProfileImage)
		}

		authenticated.GET("/users-page/users", c.User.ListUsers)

		projects := authenticated.Group("/projects")
		{
			projects.POST("/create-project", c.Project.CreateProject)
			projects.GET("/check-plan-and-projects", c.Project.CheckPlan)
			projects.GET("/my-projects", c.Project.MyProjects)
			projects.GET("/:projectId", c.Project.GetProject)
			projects.DELETE("/:projectId", c.Project.DeleteProject)
			projects.PATCH("/:projectId/edit-project", c.Project.UpdateProject)
			projects.POST("/:projectId/banner", c.Project.UploadBanner)
			projects.GET("/:projectId/validate-privileges", c.Project.ValidatePrivileges)

			projects.GET("/:projectId/collaborators", c.Collaborator.ListCollaborators)
			projects.PATCH("/:projectId/collaborators/:userId", c.Collaborator.UpdatePrivileges)
			projects.DELETE("/:projectId/collaborators/:userId", c.Collaborator.RemoveCollaborator)
			projects.POST("/:projectId/leave", c.Collaborator.LeaveProject)

			projects.GET("/:projectId/channels", c.Channel.ListChannels)
			projects.POST("/:projectId/channels", c.Channel.CreateChannel)
			projects.DELETE("/:projectId/channels/:channelId/deleteChannel", c.Channel.DeleteChannel)
			projects.GET("/:projectId/channels/:channelId/messages", c.Channel.ListMessages)
			projects.POST("/:projectId/channels/:channelId/messages", c.Channel.SendMessage)
			projects.GET("/:projectId/channels/:channelId/subscribe", c.Channel.Subscribe)
		}

		messages := authenticated.Group("/messages")
		{
			messages.PUT("/:messageId", c.Channel.EditMessage)
			messages.DELETE("/:messageId", c.Channel.DeleteMessage)
		}

		dms := authenticated.Group("/direct-messages")
		{
			dms.GET("", c.DirectMessage.ListConversations)
			dms.GET("/users/:userId", c.DirectMessage.GetConversation)
			dms.POST("/users/:userId", c.DirectMessage.SendMessage)
			dms.GET("/users/:userId/subscribe", c.DirectMessage.Subscribe)
			dms.PUT("/messages/:messageId", c.DirectMessage.EditMessage)
			dms.DELETE("/messages/:messageId", c.DirectMessage.DeleteMessage)
		}

		page := authenticated.Group("/projects-page")
		{
			page.GET("/fetch-all-projects", c.Project.FetchAllProjects)
			page.GET("/filter-projects", c.Project.FilterProjects)
			page.POST("/apply", c.Request.Apply)
			page.POST("/accept-project-request", c.Request.Accept)
			page.POST("/decline-project-request", c.Request.Decline)
			page.GET("/applications-received", c.Request.ApplicationsReceived)
			page.GET("/applications-sent", c.Request.ApplicationsSent)
			page.GET("/fetch-unread-applications-received", c.Request.UnreadApplicationsReceived)
			page.GET("/fetch-unread-applications-sent", c.Request.UnreadApplicationsSent)
			page.POST("/mark-applications-read", c.Request.MarkApplicationsRead)
			page.POST("/mark-applications-sent-read", c.Request.MarkApplicationsSentRead)
		}

		invites := authenticated.Group("/project-invites")
		{
			invites.POST("/send-invite", c.Invite.SendInvite)
			invites.GET("", c.Invite.ListReceived)
			invites.GET("/sent", c.Invite.ListSent)
			invites.GET("/unread-count", c.Invite.UnreadCount)
			invites.POST("/mark-all-invites-read", c.Invite.MarkAllRead)
			invites.POST("/mark-all-sent-invites-read", c.Invite.MarkAllSentRead)
			invites.GET("/:id", c.Invite.GetInvite)
			invites.PATCH("/:id", c.Invite.RespondInvite)
			invites.DELETE("/:id", c.Invite.DeleteInvite)
		}

		authenticated.GET("/notifications/unread-counts", c.Notification.UnreadCounts)
	}

	// Health check endpoint (public)
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}

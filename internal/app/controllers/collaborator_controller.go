package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// CollaboratorController handles project membership
type CollaboratorController struct {
	collaboratorService services.CollaboratorService
}

// NewCollaboratorController creates a new CollaboratorController
func NewCollaboratorController(collaboratorService services.CollaboratorService) *CollaboratorController {
	return &CollaboratorController{
		collaboratorService: collaboratorService,
	}
}

// ListCollaborators lists the collaborators of a project
// @Summary List collaborators
// @Tags collaborators
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ProjectCollaborator}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{projectId}/collaborators [get]
func (c *CollaboratorController) ListCollaborators(ctx *gin.Context) {
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	collaborators, err := c.collaboratorService.ListCollaborators(ctx.Request.Context(), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(collaborators))
}

// UpdatePrivileges changes a collaborator's privilege flags
// @Summary Update collaborator privileges
// @Description Granting adminPrivileges also grants canRemoveUser, canRemoveChannel and canEditProject. Only the owner may change canEditAdminAccess.
// @Tags collaborators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param userId path int true "Collaborator user ID"
// @Param request body dto.UpdatePrivilegesRequest true "Flags to change"
// @Success 200 {object} dto.APIResponse{data=models.ProjectCollaborator}
// @Failure 400 {object} dto.ErrorResponse "Target is the owner"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Collaborator not found"
// @Router /projects/{projectId}/collaborators/{userId} [patch]
func (c *CollaboratorController) UpdatePrivileges(ctx *gin.Context) {
	requesterID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	targetID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}

	var req dto.UpdatePrivilegesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	collaborator, err := c.collaboratorService.UpdatePrivileges(ctx.Request.Context(), projectID, requesterID, targetID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(collaborator))
}

// RemoveCollaborator removes a collaborator from a project
// @Summary Remove collaborator
// @Tags collaborators
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param userId path int true "Collaborator user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Target is the owner or the requester"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Collaborator not found"
// @Router /projects/{projectId}/collaborators/{userId} [delete]
func (c *CollaboratorController) RemoveCollaborator(ctx *gin.Context) {
	requesterID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	targetID, ok := middleware.ParamID(ctx, "userId")
	if !ok {
		return
	}

	if err := c.collaboratorService.RemoveCollaborator(ctx.Request.Context(), projectID, requesterID, targetID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Collaborator removed"}))
}

// LeaveProject removes the caller from a project
// @Summary Leave project
// @Tags collaborators
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "The owner cannot leave"
// @Failure 404 {object} dto.ErrorResponse "Not a collaborator"
// @Router /projects/{projectId}/leave [post]
func (c *CollaboratorController) LeaveProject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	if err := c.collaboratorService.LeaveProject(ctx.Request.Context(), projectID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "You left the project"}))
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/pkg/helpers"
)

// ProjectController handles project operations
type ProjectController struct {
	projectService services.ProjectService
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService) *ProjectController {
	return &ProjectController{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller
// @Summary Create project
// @Description Free plan users may own a limited number of projects
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.APIResponse{data=models.Project} "Project created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Project limit reached for the free plan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/create-project [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.CreateProject(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(project))
}

// CheckPlan reports whether the caller may create another project
// @Summary Check plan and project count
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PlanCheckResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/check-plan-and-projects [get]
func (c *ProjectController) CheckPlan(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.projectService.CheckPlan(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetProject returns a single project
// @Summary Get project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=models.Project}
// @Failure 400 {object} dto.ErrorResponse "Invalid project ID"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{projectId} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	project, err := c.projectService.GetProject(ctx.Request.Context(), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project))
}

// MyProjects lists projects the caller owns or collaborates on
// @Summary My projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Project}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /projects/my-projects [get]
func (c *ProjectController) MyProjects(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.ListMyProjects(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(projects))
}

// UpdateProject edits title, description, tags or roles
// @Summary Edit project
// @Description Requires ownership or canEditProject
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Project}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{projectId}/edit-project [patch]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.UpdateProject(ctx.Request.Context(), projectID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project))
}

// UploadBanner replaces the project banner
// @Summary Upload project banner
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param banner formData file true "Banner image"
// @Success 200 {object} dto.APIResponse{data=dto.BannerResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid file"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 503 {object} dto.ErrorResponse "File storage unavailable"
// @Router /projects/{projectId}/banner [post]
func (c *ProjectController) UploadBanner(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}
	file, ok := formFile(ctx, "banner")
	if !ok {
		return
	}

	url, err := c.projectService.UpdateBanner(ctx.Request.Context(), projectID, userID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.BannerResponse{BannerURL: url}))
}

// DeleteProject removes a project with its channels, messages and memberships
// @Summary Delete project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Only the owner can delete the project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{projectId} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	if err := c.projectService.DeleteProject(ctx.Request.Context(), projectID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Project deleted"}))
}

// ValidatePrivileges returns the effective privileges of a user in a project
// @Summary Validate privileges
// @Description userId defaults to the caller. Non-members get every flag false.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project ID"
// @Param userId query int false "User to check"
// @Success 200 {object} dto.APIResponse{data=models.Privileges}
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{projectId}/validate-privileges [get]
func (c *ProjectController) ValidatePrivileges(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := middleware.ParamID(ctx, "projectId")
	if !ok {
		return
	}

	if raw := ctx.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badQuery(ctx, "userId", "userId must be a positive number")
			return
		}
		userID = id
	}

	privs, err := c.projectService.ValidatePrivileges(ctx.Request.Context(), projectID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(privs))
}

// FetchAllProjects lists every project newest first
// @Summary Browse projects
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Project}}
// @Router /projects-page/fetch-all-projects [get]
func (c *ProjectController) FetchAllProjects(ctx *gin.Context) {
	c.listProjects(ctx, models.ProjectFilter{})
}

// FilterProjects searches projects by text, tags and roles
// @Summary Filter projects
// @Description searchTerm matches title or description; tags and roles match on any overlap
// @Tags projects-page
// @Produce json
// @Security BearerAuth
// @Param searchTerm query string false "Text to search"
// @Param tags query []string false "Tags" collectionFormat(csv)
// @Param roles query []string false "Roles" collectionFormat(csv)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Project}}
// @Router /projects-page/filter-projects [get]
func (c *ProjectController) FilterProjects(ctx *gin.Context) {
	c.listProjects(ctx, models.ProjectFilter{
		SearchTerm: ctx.Query("searchTerm"),
		Tags:       queryList(ctx, "tags"),
		Roles:      queryList(ctx, "roles"),
	})
}

func (c *ProjectController) listProjects(ctx *gin.Context, filter models.ProjectFilter) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, size)

	projects, total, err := c.projectService.ListProjects(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      projects,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

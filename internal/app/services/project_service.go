package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/filestorage"
)

// ProjectService defines the interface for project operations
type ProjectService interface {
	CreateProject(ctx context.Context, userID int64, req *dto.CreateProjectRequest) (*models.Project, error)
	CheckPlan(ctx context.Context, userID int64) (*dto.PlanCheckResponse, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	ListMyProjects(ctx context.Context, userID int64) ([]*models.Project, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, int64, error)
	UpdateProject(ctx context.Context, projectID, userID int64, req *dto.UpdateProjectRequest) (*models.Project, error)
	UpdateBanner(ctx context.Context, projectID, userID int64, file *multipart.FileHeader) (string, error)
	DeleteProject(ctx context.Context, projectID, userID int64) error
	ValidatePrivileges(ctx context.Context, projectID, userID int64) (models.Privileges, error)
}

// projectServiceImpl implements ProjectService
type projectServiceImpl struct {
	projectRepo      repositories.IProjectRepository
	userRepo         repositories.IUserRepository
	authzService     *auth.AuthorizationService
	fileStorage      filestorage.FileStorage
	freeProjectLimit int
	logger           zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo repositories.IProjectRepository,
	userRepo repositories.IUserRepository,
	authzService *auth.AuthorizationService,
	fileStorage filestorage.FileStorage,
	freeProjectLimit int,
	logger zerolog.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:      projectRepo,
		userRepo:         userRepo,
		authzService:     authzService,
		fileStorage:      fileStorage,
		freeProjectLimit: freeProjectLimit,
		logger:           logger,
	}
}

// checkPlan is the single place the free plan project limit is evaluated
func (s *projectServiceImpl) checkPlan(ctx context.Context, userID int64) (*dto.PlanCheckResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.projectRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting projects: %w", err)
	}

	resp := &dto.PlanCheckResponse{
		Plan:         user.Plan,
		ProjectCount: count,
		CanCreate:    true,
	}
	if user.Plan == models.PlanFree {
		resp.Limit = s.freeProjectLimit
		resp.CanCreate = count < int64(s.freeProjectLimit)
	}
	return resp, nil
}

// CheckPlan reports the user's plan and whether another project may be created
func (s *projectServiceImpl) CheckPlan(ctx context.Context, userID int64) (*dto.PlanCheckResponse, error) {
	return s.checkPlan(ctx, userID)
}

// CreateProject creates a project owned by userID, subject to the plan limit
func (s *projectServiceImpl) CreateProject(ctx context.Context, userID int64, req *dto.CreateProjectRequest) (*models.Project, error) {
	plan, err := s.checkPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !plan.CanCreate {
		s.logger.Info().Int64("userID", userID).Int64("projectCount", plan.ProjectCount).Msg("Project creation blocked by plan limit")
		return nil, apperrors.ErrPlanLimitReached
	}

	project := &models.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tags:        req.Tags,
		Roles:       req.Roles,
		CreatedBy:   userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectID", project.ID).Int64("userID", userID).Msg("Project created")
	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// ListMyProjects returns the projects the user owns or collaborates on
func (s *projectServiceImpl) ListMyProjects(ctx context.Context, userID int64) ([]*models.Project, error) {
	return s.projectRepo.ListByMember(ctx, userID)
}

// ListProjects returns a page of the public project listing
func (s *projectServiceImpl) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, int64, error) {
	return s.projectRepo.List(ctx, filter)
}

// UpdateProject edits a project; requires ownership or canEditProject
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID, userID int64, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, _, err := s.authzService.Require(ctx, projectID, userID, func(p models.Privileges) bool { return p.CanEditProject })
	if err != nil {
		return nil, err
	}

	req.Apply(project)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateBanner stores a new banner image for the project and removes the previous one
func (s *projectServiceImpl) UpdateBanner(ctx context.Context, projectID, userID int64, file *multipart.FileHeader) (string, error) {
	project, _, err := s.authzService.Require(ctx, projectID, userID, func(p models.Privileges) bool { return p.CanEditProject })
	if err != nil {
		return "", err
	}

	if _, err := filestorage.ValidateImage(file); err != nil {
		return "", apperrors.NewBadRequestError(err.Error())
	}

	url, err := s.fileStorage.SaveFile(ctx, filestorage.BucketProjectBanners, file)
	if err != nil {
		s.logger.Error().Err(err).Int64("projectID", projectID).Msg("Failed to store project banner")
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	if err := s.projectRepo.UpdateBanner(ctx, projectID, url); err != nil {
		_ = s.fileStorage.DeleteFile(ctx, filestorage.BucketProjectBanners, url)
		return "", err
	}

	if project.BannerURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, filestorage.BucketProjectBanners, project.BannerURL); err != nil {
			s.logger.Warn().Err(err).Int64("projectID", projectID).Msg("Failed to delete previous banner")
		}
	}
	return url, nil
}

// DeleteProject removes a project and everything scoped to it; owner only
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID, userID int64) error {
	project, err := s.authzService.RequireOwner(ctx, projectID, userID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	if project.BannerURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, filestorage.BucketProjectBanners, project.BannerURL); err != nil {
			s.logger.Warn().Err(err).Int64("projectID", projectID).Msg("Failed to delete banner of removed project")
		}
	}

	s.logger.Info().Int64("projectID", projectID).Int64("userID", userID).Msg("Project deleted")
	return nil
}

// ValidatePrivileges resolves the user's privileges on the project
func (s *projectServiceImpl) ValidatePrivileges(ctx context.Context, projectID, userID int64) (models.Privileges, error) {
	_, privs, err := s.authzService.ResolvePrivileges(ctx, projectID, userID)
	return privs, err
}

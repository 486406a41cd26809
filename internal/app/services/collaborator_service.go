package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// Collaborator management failures
var (
	ErrTargetIsOwner        = apperrors.NewBadRequestError("The project owner's membership cannot be changed")
	ErrRemoveSelf           = apperrors.NewBadRequestError("Use leave to remove yourself from a project")
	ErrOwnerCannotLeave     = apperrors.NewBadRequestError("The project owner cannot leave the project")
	ErrAdminAccessOwnerOnly = apperrors.NewForbiddenError("Only the project owner can change admin access")
)

// CollaboratorService defines the interface for project membership operations
type CollaboratorService interface {
	ListCollaborators(ctx context.Context, projectID int64) ([]*models.ProjectCollaborator, error)
	UpdatePrivileges(ctx context.Context, projectID, requesterID, targetID int64, req *dto.UpdatePrivilegesRequest) (*models.ProjectCollaborator, error)
	RemoveCollaborator(ctx context.Context, projectID, requesterID, targetID int64) error
	LeaveProject(ctx context.Context, projectID, userID int64) error
}

// collaboratorServiceImpl implements CollaboratorService
type collaboratorServiceImpl struct {
	projectRepo      repositories.IProjectRepository
	collaboratorRepo repositories.ICollaboratorRepository
	authzService     *auth.AuthorizationService
	logger           zerolog.Logger
}

// NewCollaboratorService creates a new CollaboratorService
func NewCollaboratorService(
	projectRepo repositories.IProjectRepository,
	collaboratorRepo repositories.ICollaboratorRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) CollaboratorService {
	return &collaboratorServiceImpl{
		projectRepo:      projectRepo,
		collaboratorRepo: collaboratorRepo,
		authzService:     authzService,
		logger:           logger,
	}
}

// ListCollaborators returns the non-owner members of a project
func (s *collaboratorServiceImpl) ListCollaborators(ctx context.Context, projectID int64) ([]*models.ProjectCollaborator, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.collaboratorRepo.ListByProject(ctx, projectID)
}

// UpdatePrivileges changes a collaborator's flags. Granting admin implies the three management flags.
func (s *collaboratorServiceImpl) UpdatePrivileges(ctx context.Context, projectID, requesterID, targetID int64, req *dto.UpdatePrivilegesRequest) (*models.ProjectCollaborator, error) {
	project, privs, err := s.authzService.Require(ctx, projectID, requesterID, func(p models.Privileges) bool {
		return p.IsOwner || p.CanEditAdminAccess
	})
	if err != nil {
		return nil, err
	}
	if req.CanEditAdminAccess != nil && !privs.IsOwner {
		return nil, ErrAdminAccessOwnerOnly
	}
	if targetID == project.CreatedBy {
		return nil, ErrTargetIsOwner
	}

	collaborator, err := s.collaboratorRepo.Get(ctx, projectID, targetID)
	if err != nil {
		return nil, err
	}

	applyPrivileges(collaborator, req)
	if err := s.collaboratorRepo.UpdatePrivileges(ctx, collaborator); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("projectID", projectID).
		Int64("targetID", targetID).
		Int64("requesterID", requesterID).
		Bool("admin", collaborator.AdminPrivileges).
		Msg("Collaborator privileges updated")
	return collaborator, nil
}

func applyPrivileges(c *models.ProjectCollaborator, req *dto.UpdatePrivilegesRequest) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.AdminPrivileges, req.AdminPrivileges)
	set(&c.CanRemoveUser, req.CanRemoveUser)
	set(&c.CanRemoveChannel, req.CanRemoveChannel)
	set(&c.CanEditProject, req.CanEditProject)
	set(&c.CanEditAdminAccess, req.CanEditAdminAccess)

	if c.AdminPrivileges {
		c.CanRemoveUser = true
		c.CanRemoveChannel = true
		c.CanEditProject = true
	}
}

// RemoveCollaborator removes another member from the project
func (s *collaboratorServiceImpl) RemoveCollaborator(ctx context.Context, projectID, requesterID, targetID int64) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if targetID == project.CreatedBy {
		return ErrTargetIsOwner
	}
	if targetID == requesterID {
		return ErrRemoveSelf
	}

	if _, _, err := s.authzService.Require(ctx, projectID, requesterID, func(p models.Privileges) bool {
		return p.CanRemoveUser || p.AdminPrivileges
	}); err != nil {
		return err
	}

	if err := s.collaboratorRepo.Delete(ctx, projectID, targetID); err != nil {
		return err
	}

	s.logger.Info().Int64("projectID", projectID).Int64("targetID", targetID).Int64("requesterID", requesterID).Msg("Collaborator removed")
	return nil
}

// LeaveProject removes the caller's own membership
func (s *collaboratorServiceImpl) LeaveProject(ctx context.Context, projectID, userID int64) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.CreatedBy == userID {
		return ErrOwnerCannotLeave
	}
	return s.collaboratorRepo.Delete(ctx, projectID, userID)
}

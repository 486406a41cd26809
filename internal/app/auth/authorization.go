package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// Authorization failures returned by the Require* helpers
var (
	ErrNotMember        = apperrors.NewForbiddenError("You are not a member of this project")
	ErrNotProjectOwner  = apperrors.NewForbiddenError("Only the project owner can perform this action")
	ErrPermissionDenied = apperrors.NewForbiddenError("You don't have permission for this action")
)

// AuthorizationService resolves what a user may do on a project
type AuthorizationService struct {
	projectRepo      repositories.IProjectRepository
	collaboratorRepo repositories.ICollaboratorRepository
	logger           zerolog.Logger
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	projectRepo repositories.IProjectRepository,
	collaboratorRepo repositories.ICollaboratorRepository,
	logger zerolog.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		projectRepo:      projectRepo,
		collaboratorRepo: collaboratorRepo,
		logger:           logger,
	}
}

// ResolvePrivileges returns the project and the user's privileges on it.
// A user that is neither owner nor collaborator gets every flag false.
func (s *AuthorizationService) ResolvePrivileges(ctx context.Context, projectID, userID int64) (*models.Project, models.Privileges, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, models.Privileges{}, err
	}

	if project.CreatedBy == userID {
		return project, models.OwnerPrivileges(), nil
	}

	collaborator, err := s.collaboratorRepo.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCollaboratorNotFound) {
			return project, models.Privileges{}, nil
		}
		s.logger.Error().Err(err).Int64("projectID", projectID).Int64("userID", userID).Msg("Error loading collaborator")
		return nil, models.Privileges{}, fmt.Errorf("failed to resolve privileges: %w", err)
	}

	return project, models.CollaboratorPrivileges(collaborator), nil
}

// Require resolves privileges and fails with ErrPermissionDenied unless allowed returns true
func (s *AuthorizationService) Require(ctx context.Context, projectID, userID int64, allowed func(models.Privileges) bool) (*models.Project, models.Privileges, error) {
	project, privs, err := s.ResolvePrivileges(ctx, projectID, userID)
	if err != nil {
		return nil, privs, err
	}
	if !allowed(privs) {
		if !privs.IsMember {
			return nil, privs, ErrNotMember
		}
		return nil, privs, ErrPermissionDenied
	}
	return project, privs, nil
}

// RequireMember fails unless the user owns or collaborates on the project
func (s *AuthorizationService) RequireMember(ctx context.Context, projectID, userID int64) (*models.Project, models.Privileges, error) {
	return s.Require(ctx, projectID, userID, func(p models.Privileges) bool { return p.IsMember })
}

// RequireOwner fails unless the user created the project
func (s *AuthorizationService) RequireOwner(ctx context.Context, projectID, userID int64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatedBy != userID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

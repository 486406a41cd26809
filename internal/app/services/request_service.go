package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/email"
)

// Application failures
var (
	ErrOwnerCannotApply   = apperrors.NewBadRequestError("You already own this project")
	ErrApplicationPending = apperrors.NewConflictError("You already have a pending application for this project")
	ErrRequestProcessed   = apperrors.NewConflictError("Project request has already been processed")
)

// RequestService defines the interface for the project application lifecycle
type RequestService interface {
	Apply(ctx context.Context, userID, projectID int64) (*models.ProjectRequest, error)
	Accept(ctx context.Context, requestID, userID int64) (*models.ProjectRequest, error)
	Decline(ctx context.Context, requestID, userID int64) (*models.ProjectRequest, error)
	ListReceived(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error)
	ListSent(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error)
	MarkReceivedRead(ctx context.Context, userID int64) (int64, error)
	MarkSentRead(ctx context.Context, userID int64) (int64, error)
}

// requestServiceImpl implements RequestService
type requestServiceImpl struct {
	requestRepo      repositories.IRequestRepository
	projectRepo      repositories.IProjectRepository
	collaboratorRepo repositories.ICollaboratorRepository
	userRepo         repositories.IUserRepository
	authzService     *auth.AuthorizationService
	emailService     email.EmailService
	logger           zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo repositories.IRequestRepository,
	projectRepo repositories.IProjectRepository,
	collaboratorRepo repositories.ICollaboratorRepository,
	userRepo repositories.IUserRepository,
	authzService *auth.AuthorizationService,
	emailService email.EmailService,
	logger zerolog.Logger,
) RequestService {
	return &requestServiceImpl{
		requestRepo:      requestRepo,
		projectRepo:      projectRepo,
		collaboratorRepo: collaboratorRepo,
		userRepo:         userRepo,
		authzService:     authzService,
		emailService:     emailService,
		logger:           logger,
	}
}

// Apply files a pending application to join the project
func (s *requestServiceImpl) Apply(ctx context.Context, userID, projectID int64) (*models.ProjectRequest, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatedBy == userID {
		return nil, ErrOwnerCannotApply
	}

	if _, err := s.collaboratorRepo.Get(ctx, projectID, userID); err == nil {
		return nil, apperrors.ErrAlreadyCollaborator
	} else if !errors.Is(err, apperrors.ErrCollaboratorNotFound) {
		return nil, err
	}

	pending, err := s.requestRepo.HasPending(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrApplicationPending
	}

	request := &models.ProjectRequest{ProjectID: projectID, UserID: userID}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	request.ProjectTitle = project.Title

	applicant, aerr := s.userRepo.GetByID(ctx, userID)
	owner, oerr := s.userRepo.GetByID(ctx, project.CreatedBy)
	if aerr == nil && oerr == nil {
		request.Username = applicant.Username
		if err := s.emailService.SendApplicationEmail(owner.Email, owner.Username, applicant.Username, project.Title); err != nil {
			s.logger.Warn().Err(err).Int64("requestID", request.ID).Msg("Failed to send application email")
		}
	}

	s.logger.Info().Int64("requestID", request.ID).Int64("projectID", projectID).Int64("userID", userID).Msg("Application filed")
	return request, nil
}

// pendingForManager loads a request the user may answer
func (s *requestServiceImpl) pendingForManager(ctx context.Context, requestID, userID int64) (*models.ProjectRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.authzService.Require(ctx, request.ProjectID, userID, models.Privileges.CanManageMembers); err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrRequestProcessed
	}
	return request, nil
}

// Accept admits the applicant as a collaborator without privileges
func (s *requestServiceImpl) Accept(ctx context.Context, requestID, userID int64) (*models.ProjectRequest, error) {
	request, err := s.pendingForManager(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Accept(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("requestID", requestID).Int64("userID", userID).Msg("Application accepted")
	return request, nil
}

// Decline rejects the application
func (s *requestServiceImpl) Decline(ctx context.Context, requestID, userID int64) (*models.ProjectRequest, error) {
	request, err := s.pendingForManager(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Decline(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("requestID", requestID).Int64("userID", userID).Msg("Application declined")
	return request, nil
}

// ListReceived returns applications to projects the user owns or administers
func (s *requestServiceImpl) ListReceived(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error) {
	return s.requestRepo.ListReceived(ctx, userID, unreadOnly)
}

// ListSent returns the user's own applications
func (s *requestServiceImpl) ListSent(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error) {
	return s.requestRepo.ListSent(ctx, userID, unreadOnly)
}

// MarkReceivedRead marks received applications read
func (s *requestServiceImpl) MarkReceivedRead(ctx context.Context, userID int64) (int64, error) {
	return s.requestRepo.MarkReceivedRead(ctx, userID)
}

// MarkSentRead marks the user's applications read
func (s *requestServiceImpl) MarkSentRead(ctx context.Context, userID int64) (int64, error) {
	return s.requestRepo.MarkSentRead(ctx, userID)
}

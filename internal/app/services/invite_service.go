package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/email"
)

// Invite failures
var (
	ErrInviteOwner       = apperrors.NewBadRequestError("The project owner cannot be invited")
	ErrInviteSelf        = apperrors.NewBadRequestError("You cannot invite yourself")
	ErrNotInviteReceiver = apperrors.NewForbiddenError("Only the invited user can respond to this invite")
	ErrNotInviteParty    = apperrors.NewForbiddenError("You are not part of this invite")
	ErrInvitePending     = apperrors.NewConflictError("A pending invite already exists for this user")
)

// InviteService defines the interface for the project invite lifecycle
type InviteService interface {
	SendInvite(ctx context.Context, senderID, projectID, receiverID int64) (*models.ProjectInvite, error)
	ListReceived(ctx context.Context, userID int64) ([]*models.ProjectInvite, error)
	ListSent(ctx context.Context, userID int64) ([]*models.ProjectInvite, error)
	GetInvite(ctx context.Context, inviteID, userID int64) (*models.ProjectInvite, error)
	RespondInvite(ctx context.Context, inviteID, userID int64, status models.InviteStatus) (*models.ProjectInvite, error)
	DeleteInvite(ctx context.Context, inviteID, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	MarkAllSentRead(ctx context.Context, userID int64) (int64, error)
}

// inviteServiceImpl implements InviteService
type inviteServiceImpl struct {
	inviteRepo       repositories.IInviteRepository
	userRepo         repositories.IUserRepository
	collaboratorRepo repositories.ICollaboratorRepository
	authzService     *auth.AuthorizationService
	emailService     email.EmailService
	ttl              time.Duration
	now              func() time.Time
	logger           zerolog.Logger
}

// NewInviteService creates a new InviteService; invites expire ttl after they are sent
func NewInviteService(
	inviteRepo repositories.IInviteRepository,
	userRepo repositories.IUserRepository,
	collaboratorRepo repositories.ICollaboratorRepository,
	authzService *auth.AuthorizationService,
	emailService email.EmailService,
	ttl time.Duration,
	logger zerolog.Logger,
) InviteService {
	return &inviteServiceImpl{
		inviteRepo:       inviteRepo,
		userRepo:         userRepo,
		collaboratorRepo: collaboratorRepo,
		authzService:     authzService,
		emailService:     emailService,
		ttl:              ttl,
		now:              time.Now,
		logger:           logger,
	}
}

// SendInvite invites receiverID to the project; the sender must be owner or admin
func (s *inviteServiceImpl) SendInvite(ctx context.Context, senderID, projectID, receiverID int64) (*models.ProjectInvite, error) {
	project, _, err := s.authzService.Require(ctx, projectID, senderID, models.Privileges.CanManageMembers)
	if err != nil {
		return nil, err
	}
	if receiverID == senderID {
		return nil, ErrInviteSelf
	}
	if receiverID == project.CreatedBy {
		return nil, ErrInviteOwner
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	if _, err := s.collaboratorRepo.Get(ctx, projectID, receiverID); err == nil {
		return nil, apperrors.ErrAlreadyCollaborator
	} else if !errors.Is(err, apperrors.ErrCollaboratorNotFound) {
		return nil, err
	}

	// an expired invite no longer blocks a new one
	removed, err := s.inviteRepo.DeleteExpiredPending(ctx, projectID, receiverID, s.now())
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.logger.Debug().Int64("projectID", projectID).Int64("receiverID", receiverID).Int64("removed", removed).Msg("Removed expired invites")
	}

	pending, err := s.inviteRepo.HasPending(ctx, projectID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrInvitePending
	}

	invite := &models.ProjectInvite{
		ProjectID:  projectID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		ExpiresAt:  s.now().Add(s.ttl),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}
	invite.ProjectTitle = project.Title
	invite.ReceiverUsername = receiver.Username

	senderName := ""
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		senderName = sender.Username
		invite.SenderUsername = sender.Username
	}
	if err := s.emailService.SendInviteEmail(receiver.Email, receiver.Username, senderName, project.Title); err != nil {
		s.logger.Warn().Err(err).Int64("inviteID", invite.ID).Msg("Failed to send invite email")
	}

	s.logger.Info().
		Int64("inviteID", invite.ID).
		Int64("projectID", projectID).
		Int64("receiverID", receiverID).
		Msg("Invite sent")
	return invite, nil
}

// ListReceived returns the invites addressed to the user
func (s *inviteServiceImpl) ListReceived(ctx context.Context, userID int64) ([]*models.ProjectInvite, error) {
	return s.inviteRepo.ListReceived(ctx, userID)
}

// ListSent returns the invites the user sent
func (s *inviteServiceImpl) ListSent(ctx context.Context, userID int64) ([]*models.ProjectInvite, error) {
	return s.inviteRepo.ListSent(ctx, userID)
}

// GetInvite returns an invite to its sender or receiver
func (s *inviteServiceImpl) GetInvite(ctx context.Context, inviteID, userID int64) (*models.ProjectInvite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.SenderID != userID && invite.ReceiverID != userID {
		return nil, ErrNotInviteParty
	}
	return invite, nil
}

// RespondInvite accepts or rejects an invite. Either way the invite is consumed.
func (s *inviteServiceImpl) RespondInvite(ctx context.Context, inviteID, userID int64, status models.InviteStatus) (*models.ProjectInvite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.ReceiverID != userID {
		return nil, ErrNotInviteReceiver
	}

	if invite.Expired(s.now()) {
		if err := s.inviteRepo.Delete(ctx, inviteID); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Error().Err(err).Int64("inviteID", inviteID).Msg("Failed to delete expired invite")
		}
		return nil, apperrors.ErrInviteExpired
	}

	switch status {
	case models.InviteStatusAccepted:
		if err := s.inviteRepo.Accept(ctx, invite); err != nil {
			return nil, err
		}
	case models.InviteStatusRejected:
		if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewBadRequestError("Status must be accepted or rejected")
	}

	invite.Status = status
	s.logger.Info().Int64("inviteID", inviteID).Int64("userID", userID).Str("status", string(status)).Msg("Invite answered")
	return invite, nil
}

// DeleteInvite withdraws or dismisses an invite; allowed for sender, receiver and project owner
func (s *inviteServiceImpl) DeleteInvite(ctx context.Context, inviteID, userID int64) error {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}

	if invite.SenderID != userID && invite.ReceiverID != userID {
		_, privs, err := s.authzService.ResolvePrivileges(ctx, invite.ProjectID, userID)
		if err != nil {
			return err
		}
		if !privs.IsOwner {
			return ErrNotInviteParty
		}
	}

	return s.inviteRepo.Delete(ctx, inviteID)
}

// UnreadCount counts pending invites the user has not seen
func (s *inviteServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.inviteRepo.CountUnreadReceived(ctx, userID)
}

// MarkAllRead marks every received invite read
func (s *inviteServiceImpl) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.inviteRepo.MarkAllReceivedRead(ctx, userID)
}

// MarkAllSentRead marks every sent invite read
func (s *inviteServiceImpl) MarkAllSentRead(ctx context.Context, userID int64) (int64, error) {
	return s.inviteRepo.MarkAllSentRead(ctx, userID)
}

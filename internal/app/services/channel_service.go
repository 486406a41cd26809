package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/realtime"
)

// ChannelService defines the interface for project channel operations
type ChannelService interface {
	ListChannels(ctx context.Context, projectID, userID int64) ([]*models.Channel, error)
	CreateChannel(ctx context.Context, projectID, userID int64, name string) (*models.Channel, error)
	DeleteChannel(ctx context.Context, projectID, channelID, userID int64) (int64, error)
	// SubscriptionTopic authorizes a realtime subscription to the channel
	SubscriptionTopic(ctx context.Context, projectID, channelID, userID int64) (string, error)
}

// channelServiceImpl implements ChannelService
type channelServiceImpl struct {
	channelRepo  repositories.IChannelRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewChannelService creates a new ChannelService
func NewChannelService(
	channelRepo repositories.IChannelRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) ChannelService {
	return &channelServiceImpl{
		channelRepo:  channelRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// channelInProject loads a channel and hides channels of other projects
func channelInProject(ctx context.Context, repo repositories.IChannelRepository, projectID, channelID int64) (*models.Channel, error) {
	channel, err := repo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.ProjectID != projectID {
		return nil, apperrors.ErrChannelNotFound
	}
	return channel, nil
}

// ListChannels returns the channels of a project to its members
func (s *channelServiceImpl) ListChannels(ctx context.Context, projectID, userID int64) ([]*models.Channel, error) {
	if _, _, err := s.authzService.RequireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.channelRepo.ListByProject(ctx, projectID)
}

// CreateChannel adds a channel; requires canCreateChannel
func (s *channelServiceImpl) CreateChannel(ctx context.Context, projectID, userID int64, name string) (*models.Channel, error) {
	if _, _, err := s.authzService.Require(ctx, projectID, userID, func(p models.Privileges) bool { return p.CanCreateChannel }); err != nil {
		return nil, err
	}

	channel := &models.Channel{
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		CreatedBy: userID,
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectID", projectID).Int64("channelID", channel.ID).Msg("Channel created")
	return channel, nil
}

// DeleteChannel removes the channel and its messages, returning how many messages were deleted
func (s *channelServiceImpl) DeleteChannel(ctx context.Context, projectID, channelID, userID int64) (int64, error) {
	if _, _, err := s.authzService.Require(ctx, projectID, userID, func(p models.Privileges) bool { return p.CanRemoveChannel }); err != nil {
		return 0, err
	}
	if _, err := channelInProject(ctx, s.channelRepo, projectID, channelID); err != nil {
		return 0, err
	}

	deleted, err := s.channelRepo.DeleteWithMessages(ctx, channelID)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("projectID", projectID).
		Int64("channelID", channelID).
		Int64("deletedMessages", deleted).
		Msg("Channel deleted")
	return deleted, nil
}

// SubscriptionTopic returns the realtime topic of a channel the user may read
func (s *channelServiceImpl) SubscriptionTopic(ctx context.Context, projectID, channelID, userID int64) (string, error) {
	if _, _, err := s.authzService.RequireMember(ctx, projectID, userID); err != nil {
		return "", err
	}
	if _, err := channelInProject(ctx, s.channelRepo, projectID, channelID); err != nil {
		return "", err
	}
	return realtime.ChannelTopic(channelID), nil
}

package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/realtime"
)

// Message authorship failures
var (
	ErrNotMessageAuthor = apperrors.NewForbiddenError("Only the author can edit this message")
	ErrCannotDelete     = apperrors.NewForbiddenError("You don't have permission to delete this message")
)

// MessageService defines the interface for channel message operations
type MessageService interface {
	ListMessages(ctx context.Context, projectID, channelID, userID int64, page models.MessagePage) ([]*models.Message, error)
	SendMessage(ctx context.Context, projectID, channelID, userID int64, content string) (*models.Message, error)
	EditMessage(ctx context.Context, messageID, userID int64, content string) (*models.Message, error)
	DeleteMessage(ctx context.Context, messageID, userID int64) error
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	messageRepo  repositories.IMessageRepository
	channelRepo  repositories.IChannelRepository
	authzService *auth.AuthorizationService
	publisher    realtime.Publisher
	logger       zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo repositories.IMessageRepository,
	channelRepo repositories.IChannelRepository,
	authzService *auth.AuthorizationService,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo:  messageRepo,
		channelRepo:  channelRepo,
		authzService: authzService,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *messageServiceImpl) requireChannelMember(ctx context.Context, projectID, channelID, userID int64) error {
	if _, _, err := s.authzService.RequireMember(ctx, projectID, userID); err != nil {
		return err
	}
	_, err := channelInProject(ctx, s.channelRepo, projectID, channelID)
	return err
}

// ListMessages returns channel messages oldest first
func (s *messageServiceImpl) ListMessages(ctx context.Context, projectID, channelID, userID int64, page models.MessagePage) ([]*models.Message, error) {
	if err := s.requireChannelMember(ctx, projectID, channelID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByChannel(ctx, channelID, page)
}

// SendMessage posts a message to a channel and publishes it
func (s *messageServiceImpl) SendMessage(ctx context.Context, projectID, channelID, userID int64, content string) (*models.Message, error) {
	if err := s.requireChannelMember(ctx, projectID, channelID, userID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ChannelID: channelID,
		UserID:    userID,
		Content:   content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, realtime.ChannelTopic(channelID), message, nil))
	return message, nil
}

// EditMessage replaces the content of the caller's own message
func (s *messageServiceImpl) EditMessage(ctx context.Context, messageID, userID int64, content string) (*models.Message, error) {
	old, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if old.UserID != userID {
		return nil, ErrNotMessageAuthor
	}

	updated, err := s.messageRepo.UpdateContent(ctx, messageID, content)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.NewEvent(realtime.EventUpdate, realtime.TableMessages, realtime.ChannelTopic(updated.ChannelID), updated, old))
	return updated, nil
}

// DeleteMessage removes a message; allowed for its author and the project's owner or admins
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, messageID, userID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if message.UserID != userID {
		channel, err := s.channelRepo.GetByID(ctx, message.ChannelID)
		if err != nil {
			return err
		}
		_, privs, err := s.authzService.ResolvePrivileges(ctx, channel.ProjectID, userID)
		if err != nil {
			return err
		}
		if !privs.CanManageMembers() {
			return ErrCannotDelete
		}
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.publisher.Publish(realtime.NewEvent(realtime.EventDelete, realtime.TableMessages, realtime.ChannelTopic(message.ChannelID), nil, message))
	s.logger.Debug().Int64("messageID", messageID).Int64("userID", userID).Msg("Message deleted")
	return nil
}

package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/realtime"
)

// Direct message failures
var (
	ErrMessageToSelf    = apperrors.NewBadRequestError("You cannot send a message to yourself")
	ErrNotMessageSender = apperrors.NewForbiddenError("Only the sender can change this message")
)

// DirectMessageService defines the interface for one-to-one messaging
type DirectMessageService interface {
	ListConversations(ctx context.Context, userID int64) ([]*models.Conversation, error)
	// GetConversation returns the messages with partnerID and marks the incoming ones read
	GetConversation(ctx context.Context, userID, partnerID int64, page models.MessagePage) ([]*models.DirectMessage, error)
	SendMessage(ctx context.Context, senderID, recipientID int64, content string) (*models.DirectMessage, error)
	EditMessage(ctx context.Context, messageID, userID int64, content string) (*models.DirectMessage, error)
	DeleteMessage(ctx context.Context, messageID, userID int64) error
	SubscriptionTopic(ctx context.Context, userID, partnerID int64) (string, error)
}

// directMessageServiceImpl implements DirectMessageService
type directMessageServiceImpl struct {
	dmRepo    repositories.IDirectMessageRepository
	userRepo  repositories.IUserRepository
	publisher realtime.Publisher
	logger    zerolog.Logger
}

// NewDirectMessageService creates a new DirectMessageService
func NewDirectMessageService(
	dmRepo repositories.IDirectMessageRepository,
	userRepo repositories.IUserRepository,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) DirectMessageService {
	return &directMessageServiceImpl{
		dmRepo:    dmRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListConversations returns one entry per partner with the latest message and unread count
func (s *directMessageServiceImpl) ListConversations(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	return s.dmRepo.ListConversations(ctx, userID)
}

// GetConversation returns a page of messages with partnerID and marks the ones received by userID as read
func (s *directMessageServiceImpl) GetConversation(ctx context.Context, userID, partnerID int64, page models.MessagePage) ([]*models.DirectMessage, error) {
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}

	messages, err := s.dmRepo.ListConversation(ctx, userID, partnerID, page)
	if err != nil {
		return nil, err
	}

	read, err := s.dmRepo.MarkConversationRead(ctx, userID, partnerID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Int64("partnerID", partnerID).Msg("Failed to mark conversation read")
	} else if read > 0 {
		for _, m := range messages {
			if m.RecipientID == userID {
				m.IsRead = true
			}
		}
	}
	return messages, nil
}

// SendMessage delivers a direct message and publishes it to the conversation topic
func (s *directMessageServiceImpl) SendMessage(ctx context.Context, senderID, recipientID int64, content string) (*models.DirectMessage, error) {
	if senderID == recipientID {
		return nil, ErrMessageToSelf
	}
	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	message := &models.DirectMessage{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.dmRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.NewEvent(realtime.EventInsert, realtime.TableDirectMessages, realtime.DirectTopic(senderID, recipientID), message, nil))
	return message, nil
}

// EditMessage replaces the content of a message the caller sent
func (s *directMessageServiceImpl) EditMessage(ctx context.Context, messageID, userID int64, content string) (*models.DirectMessage, error) {
	old, err := s.dmRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if old.SenderID != userID {
		return nil, ErrNotMessageSender
	}

	updated, err := s.dmRepo.UpdateContent(ctx, messageID, content)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.NewEvent(realtime.EventUpdate, realtime.TableDirectMessages, realtime.DirectTopic(updated.SenderID, updated.RecipientID), updated, old))
	return updated, nil
}

// DeleteMessage removes a message the caller sent
func (s *directMessageServiceImpl) DeleteMessage(ctx context.Context, messageID, userID int64) error {
	message, err := s.dmRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != userID {
		return ErrNotMessageSender
	}

	if err := s.dmRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.publisher.Publish(realtime.NewEvent(realtime.EventDelete, realtime.TableDirectMessages, realtime.DirectTopic(message.SenderID, message.RecipientID), nil, message))
	return nil
}

// SubscriptionTopic returns the realtime topic of the conversation with partnerID
func (s *directMessageServiceImpl) SubscriptionTopic(ctx context.Context, userID, partnerID int64) (string, error) {
	if userID == partnerID {
		return "", ErrMessageToSelf
	}
	if _, err := s.userRepo.GetByID(ctx, partnerID); err != nil {
		return "", err
	}
	return realtime.DirectTopic(userID, partnerID), nil
}

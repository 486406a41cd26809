package services

import (
	"context"
	"fmt"

	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/repositories"
)

// NotificationService aggregates the unread badges shown in the navigation bar
type NotificationService struct {
	inviteRepo  repositories.IInviteRepository
	requestRepo repositories.IRequestRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(inviteRepo repositories.IInviteRepository, requestRepo repositories.IRequestRepository) *NotificationService {
	return &NotificationService{
		inviteRepo:  inviteRepo,
		requestRepo: requestRepo,
	}
}

// UnreadCounts returns the per-source unread counters and their sum
func (s *NotificationService) UnreadCounts(ctx context.Context, userID int64) (*dto.UnreadCountsResponse, error) {
	invites, err := s.inviteRepo.CountUnreadReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread invites: %w", err)
	}
	received, err := s.requestRepo.CountUnreadReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread applications received: %w", err)
	}
	sent, err := s.requestRepo.CountUnreadSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread applications sent: %w", err)
	}

	return &dto.UnreadCountsResponse{
		Invites:              invites,
		ApplicationsReceived: received,
		ApplicationsSent:     sent,
		Total:                invites + received + sent,
	}, nil
}

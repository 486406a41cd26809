package dto

import "github.com/yigit/collabhub/internal/app/models"

// SendInviteRequest invites a user to a project
type SendInviteRequest struct {
	ProjectID  int64 `json:"projectId" binding:"required,min=1"`
	ReceiverID int64 `json:"receiverId" binding:"required,min=1"`
}

// RespondInviteRequest accepts or rejects an invite
type RespondInviteRequest struct {
	Status models.InviteStatus `json:"status" binding:"required,oneof=accepted rejected"`
}

// ApplyRequest applies to join a project
type ApplyRequest struct {
	ProjectID int64 `json:"projectId" binding:"required,min=1"`
}

// RequestActionRequest identifies an application to accept or decline
type RequestActionRequest struct {
	RequestID int64 `json:"requestId" binding:"required,min=1"`
}

// UnreadCountsResponse aggregates the notification badges of a user
type UnreadCountsResponse struct {
	Invites              int64 `json:"invites"`
	ApplicationsReceived int64 `json:"applicationsReceived"`
	ApplicationsSent     int64 `json:"applicationsSent"`
	Total                int64 `json:"total"`
}

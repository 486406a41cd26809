package models

import "time"

// ProjectInvite is an owner-initiated membership offer
type ProjectInvite struct {
	ID             int64        `json:"id" db:"id"`
	ProjectID      int64        `json:"projectId" db:"project_id"`
	SenderID       int64        `json:"senderId" db:"sender_id"`
	ReceiverID     int64        `json:"receiverId" db:"receiver_id"`
	Status         InviteStatus `json:"status" db:"status"`
	IsReadSender   bool         `json:"isReadSender" db:"is_read_sender"`
	IsReadReceiver bool         `json:"isReadReceiver" db:"is_read_receiver"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
	ExpiresAt      time.Time    `json:"expiresAt" db:"expires_at"`

	ProjectTitle     string `json:"projectTitle,omitempty"`
	SenderUsername   string `json:"senderUsername,omitempty"`
	ReceiverUsername string `json:"receiverUsername,omitempty"`
}

// Expired reports whether the invite is past its expiry at now
func (i *ProjectInvite) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// ProjectRequest is a user-initiated application to join a project
type ProjectRequest struct {
	ID             int64         `json:"id" db:"id"`
	ProjectID      int64         `json:"projectId" db:"project_id"`
	UserID         int64         `json:"userId" db:"user_id"`
	Status         RequestStatus `json:"status" db:"status"`
	IsReadSender   bool          `json:"isReadSender" db:"is_read_sender"`
	IsReadReceiver bool          `json:"isReadReceiver" db:"is_read_receiver"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`

	ProjectTitle string `json:"projectTitle,omitempty"`
	Username     string `json:"username,omitempty"`
}

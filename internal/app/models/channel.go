package models

import "time"

// Channel is a named message stream scoped to a project
type Channel struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"projectId" db:"project_id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Message is a channel message
type Message struct {
	ID        int64     `json:"id" db:"id"`
	ChannelID int64     `json:"channelId" db:"channel_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	Edited    bool      `json:"edited" db:"edited"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DirectMessage is a message between two users
type DirectMessage struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    int64     `json:"senderId" db:"sender_id"`
	RecipientID int64     `json:"recipientId" db:"recipient_id"`
	Content     string    `json:"content" db:"content"`
	Edited      bool      `json:"edited" db:"edited"`
	IsRead      bool      `json:"isRead" db:"is_read"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Conversation summarizes the direct messages between the viewer and one partner
type Conversation struct {
	Partner     UserSummary   `json:"partner"`
	LastMessage DirectMessage `json:"lastMessage"`
	UnreadCount int           `json:"unreadCount"`
}

// MessagePage bounds a channel message listing
type MessagePage struct {
	Limit  int
	Before *time.Time
}

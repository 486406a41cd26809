package repositories

import (
	"context"
	"time"

	"github.com/yigit/collabhub/internal/app/models"
)

// IUserRepository defines persistence operations on users
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateProfileImage(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
}

// IProjectRepository defines persistence operations on projects
type IProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	UpdateBanner(ctx context.Context, id int64, url string) error
	// Delete removes the project together with its messages, channels and memberships
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, userID int64) (int64, error)
	// ListByMember returns projects the user owns or collaborates on, newest first
	ListByMember(ctx context.Context, userID int64) ([]*models.Project, error)
	List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, int64, error)
}

// ICollaboratorRepository defines persistence operations on project collaborators
type ICollaboratorRepository interface {
	Get(ctx context.Context, projectID, userID int64) (*models.ProjectCollaborator, error)
	Create(ctx context.Context, collaborator *models.ProjectCollaborator) error
	UpdatePrivileges(ctx context.Context, collaborator *models.ProjectCollaborator) error
	Delete(ctx context.Context, projectID, userID int64) error
	ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectCollaborator, error)
}

// IChannelRepository defines persistence operations on channels
type IChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, channelID int64) (*models.Channel, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.Channel, error)
	// DeleteWithMessages removes every message of the channel and then the channel, returning the message count
	DeleteWithMessages(ctx context.Context, channelID int64) (int64, error)
}

// IMessageRepository defines persistence operations on channel messages
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	// ListByChannel returns messages oldest first
	ListByChannel(ctx context.Context, channelID int64, page models.MessagePage) ([]*models.Message, error)
	UpdateContent(ctx context.Context, id int64, content string) (*models.Message, error)
	Delete(ctx context.Context, id int64) error
}

// IDirectMessageRepository defines persistence operations on direct messages
type IDirectMessageRepository interface {
	Create(ctx context.Context, message *models.DirectMessage) error
	GetByID(ctx context.Context, id int64) (*models.DirectMessage, error)
	// ListConversation returns the messages exchanged by two users, oldest first
	ListConversation(ctx context.Context, userID, partnerID int64, page models.MessagePage) ([]*models.DirectMessage, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID int64) (int64, error)
	UpdateContent(ctx context.Context, id int64, content string) (*models.DirectMessage, error)
	Delete(ctx context.Context, id int64) error
	ListConversations(ctx context.Context, userID int64) ([]*models.Conversation, error)
}

// IInviteRepository defines persistence operations on project invites
type IInviteRepository interface {
	Create(ctx context.Context, invite *models.ProjectInvite) error
	GetByID(ctx context.Context, id int64) (*models.ProjectInvite, error)
	HasPending(ctx context.Context, projectID, receiverID int64) (bool, error)
	// DeleteExpiredPending removes pending invites for the pair that expired at or before now
	DeleteExpiredPending(ctx context.Context, projectID, receiverID int64, now time.Time) (int64, error)
	ListReceived(ctx context.Context, userID int64) ([]*models.ProjectInvite, error)
	ListSent(ctx context.Context, userID int64) ([]*models.ProjectInvite, error)
	Delete(ctx context.Context, id int64) error
	// Accept adds the receiver as a collaborator without privileges and consumes the invite
	Accept(ctx context.Context, invite *models.ProjectInvite) error
	CountUnreadReceived(ctx context.Context, userID int64) (int64, error)
	MarkAllReceivedRead(ctx context.Context, userID int64) (int64, error)
	MarkAllSentRead(ctx context.Context, userID int64) (int64, error)
}

// IRequestRepository defines persistence operations on project applications
type IRequestRepository interface {
	Create(ctx context.Context, request *models.ProjectRequest) error
	GetByID(ctx context.Context, id int64) (*models.ProjectRequest, error)
	HasPending(ctx context.Context, projectID, userID int64) (bool, error)
	// Accept marks a pending request Accepted and adds the applicant as a collaborator
	Accept(ctx context.Context, request *models.ProjectRequest) error
	// Decline marks a pending request Declined
	Decline(ctx context.Context, request *models.ProjectRequest) error
	// ListReceived returns applications to projects the user owns or administers
	ListReceived(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error)
	ListSent(ctx context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error)
	CountUnreadReceived(ctx context.Context, userID int64) (int64, error)
	CountUnreadSent(ctx context.Context, userID int64) (int64, error)
	MarkReceivedRead(ctx context.Context, userID int64) (int64, error)
	MarkSentRead(ctx context.Context, userID int64) (int64, error)
}

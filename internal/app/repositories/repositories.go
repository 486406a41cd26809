package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          IUserRepository
	ProjectRepository       IProjectRepository
	CollaboratorRepository  ICollaboratorRepository
	ChannelRepository       IChannelRepository
	MessageRepository       IMessageRepository
	DirectMessageRepository IDirectMessageRepository
	InviteRepository        IInviteRepository
	RequestRepository       IRequestRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		ProjectRepository:       NewProjectRepository(db),
		CollaboratorRepository:  NewCollaboratorRepository(db),
		ChannelRepository:       NewChannelRepository(db),
		MessageRepository:       NewMessageRepository(db),
		DirectMessageRepository: NewDirectMessageRepository(db),
		InviteRepository:        NewInviteRepository(db),
		RequestRepository:       NewRequestRepository(db),
	}
}

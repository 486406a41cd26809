package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/repositories"
	pkgauth "github.com/yigit/collabhub/internal/pkg/auth"
	"github.com/yigit/collabhub/internal/pkg/email"
	"github.com/yigit/collabhub/internal/pkg/filestorage"
	"github.com/yigit/collabhub/internal/realtime"
)

// Dependencies are the infrastructure pieces services are built on
type Dependencies struct {
	JWTService       *pkgauth.JWTService
	FileStorage      filestorage.FileStorage
	EmailService     email.EmailService
	Publisher        realtime.Publisher
	FreeProjectLimit int
	InviteTTL        time.Duration
}

// Services holds all the service instances
type Services struct {
	AuthzService         *auth.AuthorizationService
	AuthService          *AuthService
	UserService          UserService
	ProjectService       ProjectService
	CollaboratorService  CollaboratorService
	ChannelService       ChannelService
	MessageService       MessageService
	DirectMessageService DirectMessageService
	InviteService        InviteService
	RequestService       RequestService
	NotificationService  *NotificationService
}

// NewServices wires every service from the repositories
func NewServices(repos *repositories.Repositories, deps Dependencies, logger zerolog.Logger) *Services {
	authz := auth.NewAuthorizationService(repos.ProjectRepository, repos.CollaboratorRepository, logger)

	inviteService := NewInviteService(
		repos.InviteRepository, repos.UserRepository, repos.CollaboratorRepository,
		authz, deps.EmailService, deps.InviteTTL, logger,
	)
	requestService := NewRequestService(
		repos.RequestRepository, repos.ProjectRepository, repos.CollaboratorRepository,
		repos.UserRepository, authz, deps.EmailService, logger,
	)

	return &Services{
		AuthzService:         authz,
		AuthService:          NewAuthService(repos.UserRepository, deps.JWTService, deps.FileStorage, logger),
		UserService:          NewUserService(repos.UserRepository, deps.FileStorage, logger),
		ProjectService:       NewProjectService(repos.ProjectRepository, repos.UserRepository, authz, deps.FileStorage, deps.FreeProjectLimit, logger),
		CollaboratorService:  NewCollaboratorService(repos.ProjectRepository, repos.CollaboratorRepository, authz, logger),
		ChannelService:       NewChannelService(repos.ChannelRepository, authz, logger),
		MessageService:       NewMessageService(repos.MessageRepository, repos.ChannelRepository, authz, deps.Publisher, logger),
		DirectMessageService: NewDirectMessageService(repos.DirectMessageRepository, repos.UserRepository, deps.Publisher, logger),
		InviteService:        inviteService,
		RequestService:       requestService,
		NotificationService:  NewNotificationService(repos.InviteRepository, repos.RequestRepository),
	}
}

package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/collabhub/internal/app/models"
	appRepos "github.com/yigit/collabhub/internal/app/repositories"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "collabhub123"

type demoUser struct {
	email    string
	username string
	role     string
	plan     appModels.Plan
}

var demoUsers = []demoUser{
	{email: "alice@collabhub.dev", username: "alice", role: "Product Manager", plan: appModels.PlanPro},
	{email: "bob@collabhub.dev", username: "bob", role: "Backend Developer", plan: appModels.PlanFree},
	{email: "carol@collabhub.dev", username: "carol", role: "Designer", plan: appModels.PlanFree},
}

// CreateDemoData creates a small set of users, one project with a collaborator, a channel and
// an application. Nothing is written when the first demo user already exists.
func CreateDemoData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	exists, err := repos.UserRepository.ExistsByEmail(ctx, demoUsers[0].email)
	if err != nil {
		return fmt.Errorf("check demo data: %w", err)
	}
	if exists {
		lgr.Info().Msg("Demo data already present, skipping seed")
		return nil
	}

	lgr.Info().Msg("Creating demo data...")

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]*appModels.User, 0, len(demoUsers))
	for _, du := range demoUsers {
		u := &appModels.User{
			Email:    du.email,
			Password: string(hash),
			Username: du.username,
			Role:     du.role,
			Plan:     du.plan,
		}
		if err := repos.UserRepository.Create(ctx, u); err != nil {
			return fmt.Errorf("create demo user %s: %w", du.username, err)
		}
		users = append(users, u)
	}
	alice, bob, carol := users[0], users[1], users[2]

	project := &appModels.Project{
		Title:       "Collab-Hub Mobile",
		Description: "A mobile client for Collab-Hub.",
		Tags:        []string{"mobile", "flutter"},
		Roles:       []string{"Designer", "Mobile Developer"},
		CreatedBy:   alice.ID,
	}
	if err := repos.ProjectRepository.Create(ctx, project); err != nil {
		return fmt.Errorf("create demo project: %w", err)
	}

	var finalErr error

	err = repos.CollaboratorRepository.Create(ctx, &appModels.ProjectCollaborator{
		ProjectID:        project.ID,
		UserID:           bob.ID,
		AdminPrivileges:  true,
		CanRemoveUser:    true,
		CanRemoveChannel: true,
		CanEditProject:   true,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error adding demo collaborator")
		finalErr = errors.Join(finalErr, err)
	}

	channel := &appModels.Channel{ProjectID: project.ID, Name: "general", CreatedBy: alice.ID}
	if err := repos.ChannelRepository.Create(ctx, channel); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo channel")
		finalErr = errors.Join(finalErr, err)
	} else {
		msg := &appModels.Message{ChannelID: channel.ID, UserID: alice.ID, Content: "Welcome to the project!"}
		if err := repos.MessageRepository.Create(ctx, msg); err != nil {
			lgr.Error().Err(err).Msg("Error creating demo message")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := repos.RequestRepository.Create(ctx, &appModels.ProjectRequest{ProjectID: project.ID, UserID: carol.ID}); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo application")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Int64("projectId", project.ID).Msg("Demo data created")
	}
	return finalErr
}

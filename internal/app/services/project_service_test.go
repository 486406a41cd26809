package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

func TestCreateProjectPlanLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	free := env.db.seedUser("ada", models.PlanFree)

	for i := 0; i < 3; i++ {
		_, err := env.svc.ProjectService.CreateProject(ctx, free.ID, &dto.CreateProjectRequest{Title: "p"})
		require.NoError(t, err)
	}

	plan, err := env.svc.ProjectService.CheckPlan(ctx, free.ID)
	require.NoError(t, err)
	assert.False(t, plan.CanCreate)
	assert.Equal(t, int64(3), plan.ProjectCount)
	assert.Equal(t, 3, plan.Limit)

	_, err = env.svc.ProjectService.CreateProject(ctx, free.ID, &dto.CreateProjectRequest{Title: "fourth"})
	assert.ErrorIs(t, err, apperrors.ErrPlanLimitReached)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	count, _ := env.db.repos().ProjectRepository.CountByOwner(ctx, free.ID)
	assert.Equal(t, int64(3), count, "no row is written when the limit is hit")
}

func TestCreateProjectProPlanUnlimited(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	pro := env.db.seedUser("grace", models.PlanPro)

	for i := 0; i < 5; i++ {
		_, err := env.svc.ProjectService.CreateProject(ctx, pro.ID, &dto.CreateProjectRequest{Title: "p"})
		require.NoError(t, err)
	}
	plan, err := env.svc.ProjectService.CheckPlan(ctx, pro.ID)
	require.NoError(t, err)
	assert.True(t, plan.CanCreate)
}

func TestUpdateProjectRequiresEditPrivilege(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.db.seedUser("owner", models.PlanFree)
	editor := env.db.seedUser("editor", models.PlanFree)
	member := env.db.seedUser("member", models.PlanFree)
	project := env.db.seedProject(owner.ID, "Rocket")
	env.db.seedCollaborator(models.ProjectCollaborator{ProjectID: project.ID, UserID: editor.ID, CanEditProject: true})
	env.db.seedCollaborator(models.ProjectCollaborator{ProjectID: project.ID, UserID: member.ID})

	title := "Rocket 2"
	updated, err := env.svc.ProjectService.UpdateProject(ctx, project.ID, editor.ID, &dto.UpdateProjectRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Rocket 2", updated.Title)

	_, err = env.svc.ProjectService.UpdateProject(ctx, project.ID, member.ID, &dto.UpdateProjectRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = env.svc.ProjectService.UpdateProject(ctx, 999, owner.ID, &dto.UpdateProjectRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDeleteProjectOwnerOnlyAndCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.db.seedUser("owner", models.PlanFree)
	admin := env.db.seedUser("admin", models.PlanFree)
	project := env.db.seedProject(owner.ID, "Rocket")
	env.db.seedCollaborator(models.ProjectCollaborator{ProjectID: project.ID, UserID: admin.ID, AdminPrivileges: true})

	ch, err := env.svc.ChannelService.CreateChannel(ctx, project.ID, owner.ID, "general")
	require.NoError(t, err)
	_, err = env.svc.MessageService.SendMessage(ctx, project.ID, ch.ID, owner.ID, "hi")
	require.NoError(t, err)

	err = env.svc.ProjectService.DeleteProject(ctx, project.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, env.svc.ProjectService.DeleteProject(ctx, project.ID, owner.ID))
	assert.Empty(t, env.db.messages)
	assert.Empty(t, env.db.channels)
	_, ok := env.db.collaborator(project.ID, admin.ID)
	assert.False(t, ok)
}

func TestValidatePrivileges(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.db.seedUser("owner", models.PlanFree)
	stranger := env.db.seedUser("stranger", models.PlanFree)
	project := env.db.seedProject(owner.ID, "Rocket")

	p, err := env.svc.ProjectService.ValidatePrivileges(ctx, project.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, p.CanCreateChannel)
	assert.True(t, p.IsOwner)

	p, err = env.svc.ProjectService.ValidatePrivileges(ctx, project.ID, stranger.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Privileges{}, p)

	_, err = env.svc.ProjectService.ValidatePrivileges(ctx, 12345, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

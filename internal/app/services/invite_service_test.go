package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

func TestAcceptInviteAddsCollaboratorWithoutPrivileges(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)

	invite, err := f.env.svc.InviteService.SendInvite(ctx, f.admin.ID, f.project.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusPending, invite.Status)
	require.Len(t, f.env.mailer.sent, 1)
	assert.Equal(t, guest.Email, f.env.mailer.sent[0].to)

	count, err := f.env.svc.InviteService.UnreadCount(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = f.env.svc.InviteService.RespondInvite(ctx, invite.ID, f.admin.ID, models.InviteStatusAccepted)
	assert.ErrorIs(t, err, ErrNotInviteReceiver)

	answered, err := f.env.svc.InviteService.RespondInvite(ctx, invite.ID, guest.ID, models.InviteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.InviteStatusAccepted, answered.Status)

	c, ok := f.env.db.collaborator(f.project.ID, guest.ID)
	require.True(t, ok)
	assert.False(t, c.AdminPrivileges)
	assert.False(t, c.CanRemoveUser)
	assert.False(t, c.CanRemoveChannel)
	assert.False(t, c.CanEditProject)
	assert.False(t, c.CanEditAdminAccess)

	_, err = f.env.svc.InviteService.RespondInvite(ctx, invite.ID, guest.ID, models.InviteStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestRejectInviteConsumesIt(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)

	invite, err := f.env.svc.InviteService.SendInvite(ctx, f.owner.ID, f.project.ID, guest.ID)
	require.NoError(t, err)

	_, err = f.env.svc.InviteService.RespondInvite(ctx, invite.ID, guest.ID, models.InviteStatusRejected)
	require.NoError(t, err)
	assert.Empty(t, f.env.db.invites)
	_, ok := f.env.db.collaborator(f.project.ID, guest.ID)
	assert.False(t, ok)
}

func TestExpiredInviteIsGoneAndDeleted(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)

	invite, err := f.env.svc.InviteService.SendInvite(ctx, f.owner.ID, f.project.ID, guest.ID)
	require.NoError(t, err)

	f.env.svc.InviteService.(*inviteServiceImpl).now = func() time.Time {
		return invite.ExpiresAt.Add(time.Minute)
	}

	_, err = f.env.svc.InviteService.RespondInvite(ctx, invite.ID, guest.ID, models.InviteStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrGone)
	assert.Empty(t, f.env.db.invites)
	_, ok := f.env.db.collaborator(f.project.ID, guest.ID)
	assert.False(t, ok)
}

func TestExpiredInviteDoesNotBlockNewInvite(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)
	invites := f.env.svc.InviteService.(*inviteServiceImpl)

	first, err := invites.SendInvite(ctx, f.owner.ID, f.project.ID, guest.ID)
	require.NoError(t, err)

	invites.now = func() time.Time { return first.ExpiresAt.Add(time.Second) }

	second, err := invites.SendInvite(ctx, f.admin.ID, f.project.ID, guest.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.ExpiresAt.After(first.ExpiresAt))

	require.Len(t, f.env.db.invites, 1)
	_, ok := f.env.db.invites[second.ID]
	assert.True(t, ok)

	_, err = invites.SendInvite(ctx, f.owner.ID, f.project.ID, guest.ID)
	assert.ErrorIs(t, err, ErrInvitePending)
}

func TestSendInviteRules(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)

	tests := []struct {
		name     string
		sender   int64
		receiver int64
		want     error
	}{
		{"plain collaborator cannot invite", f.plain.ID, guest.ID, apperrors.ErrPermissionDenied},
		{"cannot invite self", f.owner.ID, f.owner.ID, apperrors.ErrBadRequest},
		{"cannot invite the owner", f.admin.ID, f.owner.ID, apperrors.ErrBadRequest},
		{"receiver must exist", f.owner.ID, 999, apperrors.ErrResourceNotFound},
		{"already a collaborator", f.owner.ID, f.plain.ID, apperrors.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.env.svc.InviteService.SendInvite(ctx, tt.sender, f.project.ID, tt.receiver)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.env.svc.InviteService.SendInvite(ctx, f.owner.ID, f.project.ID, guest.ID)
	require.NoError(t, err)
	_, err = f.env.svc.InviteService.SendInvite(ctx, f.admin.ID, f.project.ID, guest.ID)
	assert.ErrorIs(t, err, ErrInvitePending)
}

func TestInviteVisibilityAndDeletion(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)

	invite, err := f.env.svc.InviteService.SendInvite(ctx, f.admin.ID, f.project.ID, guest.ID)
	require.NoError(t, err)

	_, err = f.env.svc.InviteService.GetInvite(ctx, invite.ID, f.plain.ID)
	assert.ErrorIs(t, err, ErrNotInviteParty)
	got, err := f.env.svc.InviteService.GetInvite(ctx, invite.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, invite.ID, got.ID)

	assert.ErrorIs(t, f.env.svc.InviteService.DeleteInvite(ctx, invite.ID, f.plain.ID), ErrNotInviteParty)
	require.NoError(t, f.env.svc.InviteService.DeleteInvite(ctx, invite.ID, f.owner.ID))

	received, err := f.env.svc.InviteService.ListReceived(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestMarkInvitesRead(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	guest := f.env.db.seedUser("guest", models.PlanFree)
	other := f.env.db.seedProject(f.owner.ID, "Second")

	for _, pid := range []int64{f.project.ID, other.ID} {
		_, err := f.env.svc.InviteService.SendInvite(ctx, f.owner.ID, pid, guest.ID)
		require.NoError(t, err)
	}

	n, err := f.env.svc.InviteService.MarkAllRead(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := f.env.svc.InviteService.UnreadCount(ctx, guest.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// sent invites start read for the sender
	n, err = f.env.svc.InviteService.MarkAllSentRead(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

func TestApplyRules(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	applicant := f.env.db.seedUser("applicant", models.PlanFree)

	_, err := f.env.svc.RequestService.Apply(ctx, f.owner.ID, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.env.svc.RequestService.Apply(ctx, f.plain.ID, f.project.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.env.svc.RequestService.Apply(ctx, applicant.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	req, err := f.env.svc.RequestService.Apply(ctx, applicant.ID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	require.Len(t, f.env.mailer.sent, 1)
	assert.Equal(t, f.owner.Email, f.env.mailer.sent[0].to)

	_, err = f.env.svc.RequestService.Apply(ctx, applicant.ID, f.project.ID)
	assert.ErrorIs(t, err, ErrApplicationPending)
}

func TestAcceptApplication(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	applicant := f.env.db.seedUser("applicant", models.PlanFree)

	req, err := f.env.svc.RequestService.Apply(ctx, applicant.ID, f.project.ID)
	require.NoError(t, err)

	_, err = f.env.svc.RequestService.Accept(ctx, req.ID, f.plain.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	accepted, err := f.env.svc.RequestService.Accept(ctx, req.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)

	c, ok := f.env.db.collaborator(f.project.ID, applicant.ID)
	require.True(t, ok)
	assert.False(t, c.AdminPrivileges)

	_, err = f.env.svc.RequestService.Accept(ctx, req.ID, f.owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = f.env.svc.RequestService.Decline(ctx, req.ID, f.owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDeclineApplication(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	applicant := f.env.db.seedUser("applicant", models.PlanFree)

	req, err := f.env.svc.RequestService.Apply(ctx, applicant.ID, f.project.ID)
	require.NoError(t, err)

	declined, err := f.env.svc.RequestService.Decline(ctx, req.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusDeclined, declined.Status)
	_, ok := f.env.db.collaborator(f.project.ID, applicant.ID)
	assert.False(t, ok)

	// a declined applicant may apply again
	_, err = f.env.svc.RequestService.Apply(ctx, applicant.ID, f.project.ID)
	assert.NoError(t, err)
}

func TestNotificationCounts(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	applicant := f.env.db.seedUser("applicant", models.PlanFree)
	otherProject := f.env.db.seedProject(f.plain.ID, "Side")

	req, err := f.env.svc.RequestService.Apply(ctx, applicant.ID, f.project.ID)
	require.NoError(t, err)
	_, err = f.env.svc.InviteService.SendInvite(ctx, f.plain.ID, otherProject.ID, applicant.ID)
	require.NoError(t, err)

	ownerCounts, err := f.env.svc.NotificationService.UnreadCounts(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ownerCounts.ApplicationsReceived)
	assert.Equal(t, int64(1), ownerCounts.Total)

	adminCounts, err := f.env.svc.NotificationService.UnreadCounts(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), adminCounts.ApplicationsReceived)

	plainCounts, err := f.env.svc.NotificationService.UnreadCounts(ctx, f.plain.ID)
	require.NoError(t, err)
	assert.Zero(t, plainCounts.Total)

	_, err = f.env.svc.RequestService.Accept(ctx, req.ID, f.owner.ID)
	require.NoError(t, err)

	counts, err := f.env.svc.NotificationService.UnreadCounts(ctx, applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Invites)
	assert.Equal(t, int64(1), counts.ApplicationsSent)
	assert.Equal(t, int64(2), counts.Total)

	unread, err := f.env.svc.RequestService.ListSent(ctx, applicant.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	n, err := f.env.svc.RequestService.MarkSentRead(ctx, applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = f.env.svc.RequestService.MarkReceivedRead(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	received, err := f.env.svc.RequestService.ListReceived(ctx, f.admin.ID, true)
	require.NoError(t, err)
	assert.Empty(t, received)
}

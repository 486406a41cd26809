package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/realtime"
)

func TestDeleteChannelReportsDeletedMessages(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()

	ch, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "general")
	require.NoError(t, err)
	other, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "random")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := f.env.svc.MessageService.SendMessage(ctx, f.project.ID, ch.ID, f.plain.ID, "hello")
		require.NoError(t, err)
	}
	_, err = f.env.svc.MessageService.SendMessage(ctx, f.project.ID, other.ID, f.plain.ID, "elsewhere")
	require.NoError(t, err)

	_, err = f.env.svc.ChannelService.DeleteChannel(ctx, f.project.ID, ch.ID, f.plain.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	deleted, err := f.env.svc.ChannelService.DeleteChannel(ctx, f.project.ID, ch.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.Len(t, f.env.db.messages, 1)

	_, err = f.env.svc.ChannelService.DeleteChannel(ctx, f.project.ID, ch.ID, f.owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.env.svc.MessageService.ListMessages(ctx, f.project.ID, ch.ID, f.owner.ID, models.MessagePage{})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCreateChannelRequiresCanCreateChannel(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()

	_, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.plain.ID, "nope")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.admin.ID, "design")
	require.NoError(t, err)
	_, err = f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "design")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stranger := f.env.db.seedUser("stranger", models.PlanFree)
	_, err = f.env.svc.ChannelService.ListChannels(ctx, f.project.ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	list, err := f.env.svc.ChannelService.ListChannels(ctx, f.project.ID, f.plain.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestChannelOfAnotherProjectIsHidden(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	otherProject := f.env.db.seedProject(f.owner.ID, "Other")

	ch, err := f.env.svc.ChannelService.CreateChannel(ctx, otherProject.ID, f.owner.ID, "general")
	require.NoError(t, err)

	_, err = f.env.svc.ChannelService.SubscriptionTopic(ctx, f.project.ID, ch.ID, f.owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	topic, err := f.env.svc.ChannelService.SubscriptionTopic(ctx, otherProject.ID, ch.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, realtime.ChannelTopic(ch.ID), topic)
}

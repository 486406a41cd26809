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

func TestChannelMessageLifecyclePublishesEvents(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	ch, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "general")
	require.NoError(t, err)

	msg, err := f.env.svc.MessageService.SendMessage(ctx, f.project.ID, ch.ID, f.plain.ID, "first")
	require.NoError(t, err)

	_, err = f.env.svc.MessageService.EditMessage(ctx, msg.ID, f.owner.ID, "hijack")
	assert.ErrorIs(t, err, ErrNotMessageAuthor)

	edited, err := f.env.svc.MessageService.EditMessage(ctx, msg.ID, f.plain.ID, "first!")
	require.NoError(t, err)
	assert.True(t, edited.Edited)
	assert.Equal(t, "first!", edited.Content)

	require.NoError(t, f.env.svc.MessageService.DeleteMessage(ctx, msg.ID, f.plain.ID))

	events := f.env.publisher.all()
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, realtime.ChannelTopic(ch.ID), ev.Topic)
		assert.Equal(t, realtime.TableMessages, ev.Table)
	}
	assert.Equal(t, realtime.EventInsert, events[0].EventType)
	assert.Equal(t, realtime.EventUpdate, events[1].EventType)
	assert.Equal(t, realtime.EventDelete, events[2].EventType)
	assert.Nil(t, events[2].New)
	assert.NotNil(t, events[2].Old)
}

func TestDeleteMessagePermissions(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	ch, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "general")
	require.NoError(t, err)

	msg, err := f.env.svc.MessageService.SendMessage(ctx, f.project.ID, ch.ID, f.owner.ID, "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, f.env.svc.MessageService.DeleteMessage(ctx, msg.ID, f.plain.ID), ErrCannotDelete)
	require.NoError(t, f.env.svc.MessageService.DeleteMessage(ctx, msg.ID, f.admin.ID))
	assert.ErrorIs(t, f.env.svc.MessageService.DeleteMessage(ctx, msg.ID, f.owner.ID), apperrors.ErrResourceNotFound)
}

func TestNonMembersCannotPost(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	ch, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "general")
	require.NoError(t, err)
	stranger := f.env.db.seedUser("stranger", models.PlanFree)

	_, err = f.env.svc.MessageService.SendMessage(ctx, f.project.ID, ch.ID, stranger.ID, "hi")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, f.env.publisher.all())
}

func TestListMessagesOldestFirstWithLimit(t *testing.T) {
	f := newTeam(t)
	ctx := context.Background()
	ch, err := f.env.svc.ChannelService.CreateChannel(ctx, f.project.ID, f.owner.ID, "general")
	require.NoError(t, err)
	for _, c := range []string{"a", "b", "c"} {
		_, err := f.env.svc.MessageService.SendMessage(ctx, f.project.ID, ch.ID, f.owner.ID, c)
		require.NoError(t, err)
	}

	list, err := f.env.svc.MessageService.ListMessages(ctx, f.project.ID, ch.ID, f.plain.ID, models.MessagePage{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Content)
	assert.Equal(t, "c", list[1].Content)
}

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

func TestDirectMessages(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	ada := env.db.seedUser("ada", models.PlanFree)
	bob := env.db.seedUser("bob", models.PlanFree)
	svc := env.svc.DirectMessageService

	_, err := svc.SendMessage(ctx, ada.ID, ada.ID, "me")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	_, err = svc.SendMessage(ctx, ada.ID, 999, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	m1, err := svc.SendMessage(ctx, ada.ID, bob.ID, "hi bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, ada.ID, bob.ID, "you there?")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 2, convs[0].UnreadCount)
	assert.Equal(t, "ada", convs[0].Partner.Username)

	msgs, err := svc.GetConversation(ctx, bob.ID, ada.ID, models.MessagePage{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsRead)

	convs, err = svc.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, convs[0].UnreadCount)

	_, err = svc.EditMessage(ctx, m1.ID, bob.ID, "edited by bob")
	assert.ErrorIs(t, err, ErrNotMessageSender)
	assert.ErrorIs(t, svc.DeleteMessage(ctx, m1.ID, bob.ID), ErrNotMessageSender)
	require.NoError(t, svc.DeleteMessage(ctx, m1.ID, ada.ID))

	topic, err := svc.SubscriptionTopic(ctx, bob.ID, ada.ID)
	require.NoError(t, err)
	for _, ev := range env.publisher.all() {
		assert.Equal(t, topic, ev.Topic)
		assert.Equal(t, realtime.TableDirectMessages, ev.Table)
	}
}

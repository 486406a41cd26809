package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/realtime"
)

type countingResolver struct {
	calls map[int64]int
	fail  bool
}

func (r *countingResolver) ResolveProfile(_ context.Context, userID int64) (*models.UserSummary, error) {
	if r.fail {
		return nil, errors.New("offline")
	}
	r.calls[userID]++
	return &models.UserSummary{ID: userID, Username: "user"}, nil
}

var t0 = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func msg(id int64, minutes int) map[string]any {
	return map[string]any{
		"id":        id,
		"userId":    7,
		"content":   "m",
		"edited":    false,
		"timestamp": t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func topic() string { return realtime.ChannelTopic(1) }

func TestInsertKeepsTimestampOrder(t *testing.T) {
	res := &countingResolver{calls: map[int64]int{}}
	f := New(res, []*Item{
		{ID: 1, UserID: 7, Timestamp: t0},
		{ID: 3, UserID: 7, Timestamp: t0.Add(10 * time.Minute)},
	})
	ctx := context.Background()

	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, topic(), msg(2, 5), nil)))
	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, topic(), msg(4, 20), nil)))

	var ids []int64
	for _, it := range f.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)

	// profile fetched once, then served from the cache
	assert.Equal(t, 1, res.calls[7])
	assert.Equal(t, "user", f.Items()[1].Author.Username)
}

func TestResolveAuthorsOncePerUser(t *testing.T) {
	res := &countingResolver{calls: map[int64]int{}}
	initial := make([]*Item, 0, 20)
	for i := 0; i < 20; i++ {
		userID := int64(7)
		if i%5 == 0 {
			userID = 8
		}
		initial = append(initial, &Item{ID: int64(i + 1), UserID: userID, Timestamp: t0.Add(time.Duration(i) * time.Minute)})
	}
	f := New(res, initial)
	ctx := context.Background()

	require.NoError(t, f.ResolveAuthors(ctx))
	assert.Equal(t, 1, res.calls[7])
	assert.Equal(t, 1, res.calls[8])
	for _, it := range f.Items() {
		require.NotNil(t, it.Author)
		assert.Equal(t, it.AuthorID(), it.Author.ID)
	}

	// later inserts reuse the cache
	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, topic(), msg(21, 30), nil)))
	assert.Equal(t, 1, res.calls[7])
}

func TestResolveAuthorsReportsFailures(t *testing.T) {
	f := New(&countingResolver{fail: true}, []*Item{
		{ID: 1, UserID: 7, Timestamp: t0},
		{ID: 2, UserID: 7, Timestamp: t0.Add(time.Minute)},
	})

	assert.Error(t, f.ResolveAuthors(context.Background()))
	for _, it := range f.Items() {
		assert.Nil(t, it.Author)
	}
}

func TestUnreadCounter(t *testing.T) {
	f := New(&countingResolver{calls: map[int64]int{}}, nil)
	ctx := context.Background()

	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, topic(), msg(1, 0), nil)))
	assert.Equal(t, 0, f.Unread())

	f.SetAtBottom(false)
	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, topic(), msg(2, 1), nil)))
	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventInsert, realtime.TableMessages, topic(), msg(3, 2), nil)))
	assert.Equal(t, 2, f.Unread())

	f.SetAtBottom(true)
	assert.Equal(t, 0, f.Unread())
}

func TestUpdateAndDeleteByID(t *testing.T) {
	f := New(&countingResolver{calls: map[int64]int{}}, []*Item{
		{ID: 1, UserID: 7, Content: "a", Timestamp: t0},
		{ID: 2, UserID: 7, Content: "b", Timestamp: t0.Add(time.Minute)},
	})
	ctx := context.Background()

	patched := msg(2, 1)
	patched["content"] = "b2"
	patched["edited"] = true
	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventUpdate, realtime.TableMessages, topic(), patched, nil)))

	items := f.Items()
	assert.Equal(t, "b2", items[1].Content)
	assert.True(t, items[1].Edited)

	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventDelete, realtime.TableMessages, topic(), nil, map[string]any{"id": 1})))
	items = f.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)

	// unknown ids are ignored
	require.NoError(t, f.Apply(ctx, realtime.NewEvent(realtime.EventDelete, realtime.TableMessages, topic(), nil, map[string]any{"id": 99})))
	assert.Len(t, f.Items(), 1)
}

func TestDirectMessageAuthorAndResolverFailure(t *testing.T) {
	f := New(&countingResolver{fail: true}, nil)
	dm := map[string]any{"id": 1, "senderId": 5, "recipientId": 6, "content": "hey", "timestamp": t0}

	err := f.Apply(context.Background(), realtime.NewEvent(realtime.EventInsert, realtime.TableDirectMessages, realtime.DirectTopic(5, 6), dm, nil))
	require.Error(t, err)
	assert.Empty(t, f.Items())

	it := Item{SenderID: 5}
	assert.Equal(t, int64(5), it.AuthorID())
}

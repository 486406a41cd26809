package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectTopicIsSymmetric(t *testing.T) {
	assert.Equal(t, "dm:3:7", DirectTopic(7, 3))
	assert.Equal(t, DirectTopic(3, 7), DirectTopic(7, 3))
	assert.Equal(t, "channel:12", ChannelTopic(12))
}

func TestNewEventOmitsNilRows(t *testing.T) {
	ev := NewEvent(EventDelete, TableMessages, "channel:1", nil, map[string]int64{"id": 5})
	assert.Nil(t, ev.New)
	assert.JSONEq(t, `{"id":5}`, string(ev.Old))
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()

	slow := &Client{hub: hub, send: make(chan []byte), topic: "channel:1", logger: zerolog.Nop()}
	hub.Register(slow)
	require.Eventually(t, func() bool { return hub.ClientCount("channel:1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(NewEvent(EventInsert, TableMessages, "channel:1", map[string]int64{"id": 1}, nil))

	require.Eventually(t, func() bool { return hub.ClientCount("channel:1") == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-slow.send
	assert.False(t, open)
}

func TestHubSubscriberRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()

	handler := NewHandler(hub, nil, 8, zerolog.Nop())
	r := gin.New()
	r.GET("/ws/:topic", func(c *gin.Context) {
		handler.Serve(c, c.Param("topic"), 42)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/channel:9"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		events []Event
	)
	done := make(chan error, 1)
	go func() {
		done <- NewSubscriber(zerolog.Nop()).Subscribe(ctx, wsURL, "", func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool { return hub.ClientCount("channel:9") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(NewEvent(EventInsert, TableMessages, "channel:9", map[string]any{"id": 1, "content": "hi"}, nil))
	hub.Publish(NewEvent(EventInsert, TableMessages, "channel:8", map[string]any{"id": 2}, nil))
	hub.Publish(NewEvent(EventDelete, TableMessages, "channel:9", nil, map[string]any{"id": 1}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, EventInsert, events[0].EventType)
	assert.Equal(t, "channel:9", events[0].Topic)
	assert.Equal(t, EventDelete, events[1].EventType)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
	require.Eventually(t, func() bool { return hub.ClientCount("channel:9") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://app.test"})

	req := httptest.NewRequest("GET", "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://app.test")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(req))
}

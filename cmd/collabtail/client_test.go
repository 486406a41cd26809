package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClientFetchesPageAndProfiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/projects/1/channels/2/messages":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":7,"userId":3,"content":"hi","timestamp":"2025-01-02T10:00:00Z"}]}`))
		case "/api/users/3":
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":3,"username":"ada","role":"Dev"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"RES_001","message":"User not found"}}`))
		}
	}))
	defer srv.Close()

	client := newAPIClient(srv.URL+"/", "tok")
	ctx := context.Background()

	items, err := client.fetchPage(ctx, "/projects/1/channels/2/messages", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, int64(3), items[0].AuthorID())

	profile, err := client.ResolveProfile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Username)

	_, err = client.ResolveProfile(ctx, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
}

func TestWebsocketURL(t *testing.T) {
	u, err := newAPIClient("https://hub.example.com", "").websocketURL("/direct-messages/users/4")
	require.NoError(t, err)
	assert.Equal(t, "wss://hub.example.com/api/direct-messages/users/4/subscribe", u)

	u, err = newAPIClient("http://localhost:8080", "").websocketURL("/projects/1/channels/2")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/api/projects/1/channels/2/subscribe", u)
}

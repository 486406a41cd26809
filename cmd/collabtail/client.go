package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/realtime/feed"
)

// apiClient talks to the Collab-Hub REST API with a bearer token
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// getJSON performs a GET against /api+path and decodes the data member of the envelope into out
func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		if env.Error != nil {
			return fmt.Errorf("GET %s: %s (%s)", path, env.Error.Message, env.Error.Code)
		}
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return json.Unmarshal(env.Data, out)
}

// ResolveProfile fetches the public profile of a user
func (c *apiClient) ResolveProfile(ctx context.Context, userID int64) (*models.UserSummary, error) {
	var profile models.UserSummary
	if err := c.getJSON(ctx, "/users/"+strconv.FormatInt(userID, 10), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// fetchPage loads the newest messages of a channel or conversation, oldest first
func (c *apiClient) fetchPage(ctx context.Context, path string, limit int) ([]*feed.Item, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var items []*feed.Item
	if err := c.getJSON(ctx, path, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// websocketURL turns an API path into the ws(s) URL of its subscription endpoint
func (c *apiClient) websocketURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + "/api" + path + "/subscribe")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

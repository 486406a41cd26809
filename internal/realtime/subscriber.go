package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Subscriber consumes a topic served by Handler
type Subscriber struct {
	dialer *websocket.Dialer
	logger zerolog.Logger
}

// NewSubscriber creates a Subscriber using the default gorilla dialer
func NewSubscriber(logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		dialer: websocket.DefaultDialer,
		logger: logger,
	}
}

// Subscribe connects to wsURL and calls handle for every event until ctx is cancelled
// or the server closes the connection. Cancelling ctx closes the connection cleanly.
func (s *Subscriber) Subscribe(ctx context.Context, wsURL, token string, handle func(Event)) error {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := s.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("subscribe %s: %s: %w", wsURL, resp.Status, err)
		}
		return fmt.Errorf("subscribe %s: %w", wsURL, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		for _, line := range bytes.Split(data, newline) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var ev Event
			if err := json.Unmarshal(line, &ev); err != nil {
				s.logger.Warn().Err(err).Msg("Skipping malformed event")
				continue
			}
			handle(ev)
		}
	}
}

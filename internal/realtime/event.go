package realtime

import (
	"encoding/json"
	"fmt"
)

// EventType is the kind of row change carried by an Event
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Tables whose changes are published
const (
	TableMessages       = "messages"
	TableDirectMessages = "direct_messages"
)

// Event is a row change delivered to subscribers of a topic
type Event struct {
	EventType EventType       `json:"eventType"`
	Table     string          `json:"table"`
	Topic     string          `json:"topic"`
	New       json.RawMessage `json:"new,omitempty"`
	Old       json.RawMessage `json:"old,omitempty"`
}

// Publisher fans events out to the subscribers of their topic
type Publisher interface {
	Publish(ev Event)
}

// NewEvent builds an Event, encoding the row images as JSON. Nil rows are omitted.
func NewEvent(eventType EventType, table, topic string, newRow, oldRow any) Event {
	return Event{
		EventType: eventType,
		Table:     table,
		Topic:     topic,
		New:       rawRow(newRow),
		Old:       rawRow(oldRow),
	}
}

func rawRow(row any) json.RawMessage {
	if row == nil {
		return nil
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil
	}
	return data
}

// ChannelTopic is the topic of a project channel
func ChannelTopic(channelID int64) string {
	return fmt.Sprintf("channel:%d", channelID)
}

// DirectTopic is the topic of the conversation between two users, independent of argument order
func DirectTopic(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("dm:%d:%d", a, b)
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(Event) {}

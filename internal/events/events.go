// Package events carries configuration lifecycle notifications over NATS.
// Events are published after the owning transaction commits; delivery is
// best-effort and never affects the outcome of the mutation.
package events

import (
	"context"

	"github.com/alfredjeanlab/configs/internal/model"
)

// Subjects
const (
	TopicConfigurationCreated = "configs.configuration.created"
	TopicConfigurationUpdated = "configs.configuration.updated"
	TopicConfigurationDeleted = "configs.configuration.deleted"

	// TopicAll matches every configuration event.
	TopicAll = "configs.>"
)

type ConfigurationCreated struct {
	Configuration *model.Configuration `json:"configuration"`
}

type ConfigurationUpdated struct {
	Configuration *model.Configuration `json:"configuration"`
}

type ConfigurationDeleted struct {
	ID int64 `json:"id"`
}

// Message is a received event with the subject it arrived on.
type Message struct {
	Topic string
	Data  []byte
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel until the returned
	// cancel function is called, which also closes the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

package pubsub

import "context"

const (
	// CreatedEvent carries a new message (user, assistant or tool)
	CreatedEvent EventType = "created"
	// UpdatedEvent carries progress such as a tool call being issued
	UpdatedEvent EventType = "updated"
	// FinishedEvent marks the end of one agent turn
	FinishedEvent EventType = "finished"
)

type (
	// EventType identifies the kind of event.
	EventType string

	// Event is one published value.
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Subscriber hands out event channels closed when ctx ends.
	Subscriber[T any] interface {
		Subscribe(context.Context) <-chan Event[T]
	}

	// Publisher publishes events.
	Publisher[T any] interface {
		Publish(EventType, T)
	}
)

package backend

import (
	"context"

	"flazz/internal/events"
	"flazz/internal/export"
)

// EventsBackend names the transport used to publish transaction events.
type EventsBackend string

const (
	EventsNone  EventsBackend = "none"
	EventsAMQP  EventsBackend = "amqp"
	EventsKafka EventsBackend = "kafka"
)

// IsValid reports whether b is a known events backend.
func (b EventsBackend) IsValid() bool {
	switch b {
	case EventsNone, EventsAMQP, EventsKafka:
		return true
	}
	return false
}

func (b EventsBackend) String() string {
	return string(b)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the export sinks, the optional publisher and a cleanup function.
type Result struct {
	Exporters map[export.Format]export.Exporter
	Publisher events.Publisher
	Cleanup   CleanupFunc
}

// Factory creates the card's outbound integrations based on configuration
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

package backend

import (
	"fmt"
	"strings"

	"flazz/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	Events EventsBackend

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	KafkaBrokers []string
	KafkaTopic   string

	// Google Sheets export is enabled when a spreadsheet id is set
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Memory keeps an in-process sink available for dry runs
	Memory bool
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	events := EventsBackend(appConfig.EventsBackend)
	if !events.IsValid() {
		return Config{}, fmt.Errorf("invalid events backend in config: %s", appConfig.EventsBackend)
	}

	return Config{
		Events: events,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		KafkaBrokers: appConfig.KafkaBrokers,
		KafkaTopic:   appConfig.KafkaTopic,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Events.IsValid() {
		return fmt.Errorf("invalid events backend: %s", c.Events)
	}

	switch c.Events {
	case EventsAMQP:
		if c.AMQPURL == "" {
			return fmt.Errorf("AMQP URL is required for amqp events")
		}
		if c.AMQPExchange == "" || c.AMQPQueue == "" {
			return fmt.Errorf("AMQP exchange and queue are required for amqp events")
		}
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("at least one Kafka broker is required for kafka events")
		}
		if c.KafkaTopic == "" {
			return fmt.Errorf("Kafka topic is required for kafka events")
		}
	case EventsNone:
	}

	if c.SheetsEnabled() && c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
		return fmt.Errorf("either GoogleServiceAccountFile or GoogleServiceAccountJSON must be provided for sheets export")
	}
	return nil
}

// SheetsEnabled reports whether the Google Sheets sink should be created.
func (c Config) SheetsEnabled() bool {
	return strings.TrimSpace(c.GoogleSpreadsheetID) != ""
}

// GetEventsBackends returns all valid events backends
func GetEventsBackends() []EventsBackend {
	return []EventsBackend{EventsNone, EventsAMQP, EventsKafka}
}

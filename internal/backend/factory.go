package backend

import (
	"context"
	"errors"
	"fmt"

	"flazz/internal/events"
	eventsamqp "flazz/internal/events/amqp"
	"flazz/internal/events/kafka"
	"flazz/internal/export"
	"flazz/internal/export/csvfile"
	"flazz/internal/export/google"
	"flazz/internal/export/memory"
	"flazz/internal/export/sqlite"
	"flazz/internal/export/xlsx"
	applog "flazz/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentApp),
	}
}

// Create builds every configured export sink and the events publisher.
// An unreachable AMQP broker is logged and the card runs without events.
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	exporters := map[export.Format]export.Exporter{
		export.FormatXLSX:   xlsx.New(),
		export.FormatCSV:    csvfile.New(),
		export.FormatSQLite: sqlite.New(f.logger),
	}
	if config.Memory {
		exporters[export.FormatMemory] = memory.New()
	}
	if config.SheetsEnabled() {
		cli, err := google.New(ctx, google.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountFile: config.GoogleServiceAccountFile,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		exporters[export.FormatSheets] = cli
		f.logger.Info("Initialized Google Sheets export", "sheet", config.GoogleSheetName)
	}

	publisher, err := f.createPublisher(config)
	if err != nil {
		return nil, err
	}

	result := &Result{Exporters: exporters, Publisher: publisher}
	if publisher != nil {
		result.Cleanup = publisher.Close
	}
	f.logger.Info("Initialized card backends",
		"export_formats", len(exporters),
		"events_backend", config.Events.String(),
		"events_enabled", publisher != nil)
	return result, nil
}

func (f *DefaultFactory) createPublisher(config Config) (events.Publisher, error) {
	switch config.Events {
	case EventsAMQP:
		client, err := eventsamqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
			return nil, nil
		}
		f.logger.Info("Initialized AMQP client",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return client, nil
	case EventsKafka:
		f.logger.Info("Initialized Kafka publisher", "topic", config.KafkaTopic)
		return kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic, f.logger), nil
	case EventsNone:
		return nil, nil
	}
	return nil, errors.New("unsupported events backend: " + config.Events.String())
}

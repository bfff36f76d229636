package backend

import (
	"context"
	"strings"
	"testing"

	"flazz/internal/config"
	"flazz/internal/export"
	applog "flazz/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	app := &config.Config{EventsBackend: "kafka", KafkaBrokers: []string{"b:9092"}, KafkaTopic: "t", GoogleSheetName: "Log"}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Events != EventsKafka || cfg.KafkaTopic != "t" || cfg.GoogleSheetName != "Log" {
		t.Fatalf("converted config %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{EventsBackend: "pigeon"}); err == nil {
		t.Fatal("expected error for unknown events backend")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"none", Config{Events: EventsNone}, ""},
		{"bad backend", Config{Events: "x"}, "invalid events backend"},
		{"amqp missing url", Config{Events: EventsAMQP, AMQPExchange: "e", AMQPQueue: "q"}, "AMQP URL"},
		{"kafka missing brokers", Config{Events: EventsKafka, KafkaTopic: "t"}, "Kafka broker"},
		{"sheets missing credentials", Config{Events: EventsNone, GoogleSpreadsheetID: "sid"}, "GoogleServiceAccount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateLocalSinks(t *testing.T) {
	f := NewFactory(applog.Discard())
	res, err := f.Create(context.Background(), Config{Events: EventsNone, Memory: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, format := range []export.Format{export.FormatXLSX, export.FormatCSV, export.FormatSQLite, export.FormatMemory} {
		if _, ok := res.Exporters[format]; !ok {
			t.Errorf("missing exporter %s", format)
		}
	}
	if _, ok := res.Exporters[export.FormatSheets]; ok {
		t.Errorf("sheets exporter created without a spreadsheet id")
	}
	if res.Publisher != nil || res.Cleanup != nil {
		t.Errorf("no publisher expected for events=none")
	}
}

func TestCreateKafkaPublisher(t *testing.T) {
	f := NewFactory(applog.Discard())
	res, err := f.Create(context.Background(), Config{Events: EventsKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "card"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Publisher == nil || res.Cleanup == nil {
		t.Fatal("expected kafka publisher")
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

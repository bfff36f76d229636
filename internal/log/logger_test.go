package log

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})
	l.Info("deposit recorded", FieldAmount, "100.00")
	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "amount=100.00") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()).Component() != ComponentHTTP {
			t.Errorf("request logger missing http component")
		}
		w.WriteHeader(http.StatusConflict)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/withdraw", nil))

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "status_code=409") {
		t.Fatalf("unexpected log line %q", out)
	}
	if !strings.Contains(out, "client_ip=192.0.2.1") || !strings.Contains(out, "success=false") {
		t.Fatalf("missing client fields in %q", out)
	}
}

func TestFieldsWithError(t *testing.T) {
	f := NewFields().WithOperation(OpExport).WithError(errors.New("disk full"))
	if f[FieldError] != "disk full" || f[FieldOperation] != OpExport {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatal("nil error must not add a field")
	}
}

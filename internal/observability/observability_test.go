package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// --- Shutdown Coordinator ---

func TestShutdownCoordinatorLIFO(t *testing.T) {
	var order []int
	sc := &ShutdownCoordinator{}

	for i := 1; i <= 3; i++ {
		i := i
		sc.Register(fmt.Sprintf("h%d", i), func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	if err := sc.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("expected LIFO [3,2,1], got %v", order)
	}
}

func TestShutdownCoordinatorEmpty(t *testing.T) {
	sc := &ShutdownCoordinator{}
	if err := sc.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestShutdownCoordinatorError(t *testing.T) {
	sc := &ShutdownCoordinator{}
	sc.Register("ok", func(ctx context.Context) error { return nil })
	sc.Register("bad", func(ctx context.Context) error { return errors.New("boom") })

	if err := sc.Shutdown(context.Background()); err == nil {
		t.Fatal("expected aggregated error")
	}
}

// --- Logging ---

func TestSetupLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("debug", "json", &buf)
	logger.Debug("hello", "key", "value")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if line["msg"] != "hello" || line["key"] != "value" {
		t.Errorf("unexpected line: %v", line)
	}
}

func TestSetupLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be suppressed at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn line missing")
	}
}

func TestPrettyHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(h)
	logger.Info("processing document", "format", "jws-json")

	out := buf.String()
	if !strings.Contains(out, "processing document") || !strings.Contains(out, "format=jws-json") {
		t.Errorf("unexpected output: %q", out)
	}
}

// --- Metrics ---

func TestNewMetricsRegisters(t *testing.T) {
	m := NewMetrics()
	m.OperationTotal.WithLabelValues("validate", "ok").Inc()
	m.RecordDocument("plain", "good", 0, 2)

	if got := testutil.ToFloat64(m.DocumentsProcessed.WithLabelValues("plain", "good")); got != 1 {
		t.Errorf("documents processed = %v", got)
	}
	if got := testutil.ToFloat64(m.ValidationIssues.WithLabelValues("warning")); got != 2 {
		t.Errorf("warning count = %v", got)
	}
	if got := testutil.ToFloat64(m.ValidationIssues.WithLabelValues("error")); got != 0 {
		t.Errorf("error count = %v", got)
	}
}

// --- Observability lifecycle ---

func TestNewWithoutTracing(t *testing.T) {
	var buf bytes.Buffer
	obs, err := New(context.Background(), ObsConfig{
		LogLevel:    "info",
		LogFormat:   "json",
		ServiceName: "vcon-info",
	}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer obs.Close(context.Background())

	if obs.Logger == nil || obs.Metrics == nil || obs.TracerProvider == nil {
		t.Error("components missing")
	}
}

func TestOperationRecordsMetrics(t *testing.T) {
	m := NewMetrics()
	op, _ := StartOperation(context.Background(), m, "process")
	op.End(nil)

	if got := testutil.ToFloat64(m.OperationTotal.WithLabelValues("process", "ok")); got != 1 {
		t.Errorf("operation total = %v", got)
	}

	op, _ = StartOperation(context.Background(), m, "process")
	op.End(errors.New("boom"))
	if got := testutil.ToFloat64(m.OperationTotal.WithLabelValues("process", "error")); got != 1 {
		t.Errorf("operation error total = %v", got)
	}
}

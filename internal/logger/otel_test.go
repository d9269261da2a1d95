package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLevelHandlerFilters(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})

	level := new(slog.LevelVar)
	level.Set(LevelWarning)
	l := slog.New(&levelHandler{level: level, handler: inner})

	l.Info("hidden")
	l.With("scheme", "standard").WithGroup("req").Warn("shown", "status", 400)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record passed a WARN filter:\n%s", out)
	}
	if !strings.Contains(out, `"scheme":"standard"`) || !strings.Contains(out, `"req":{"status":400}`) {
		t.Errorf("attrs and groups should reach the inner handler:\n%s", out)
	}

	buf.Reset()
	level.Set(LevelDebug)
	l.Info("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("lowering the level should let info through")
	}
}

func TestShutdownWithoutOTEL(t *testing.T) {
	saved := shutdownFunc
	shutdownFunc = nil
	t.Cleanup(func() { shutdownFunc = saved })

	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil for JSON logging", err)
	}
}

func TestEnableOTELSwapsHandler(t *testing.T) {
	savedLogger, savedShutdown := Logger, shutdownFunc
	t.Cleanup(func() {
		Logger, shutdownFunc = savedLogger, savedShutdown
		slog.SetDefault(Logger)
	})

	// the gRPC client connects lazily, so no collector is needed here
	if err := EnableOTEL(context.Background(), ""); err != nil {
		t.Fatalf("EnableOTEL() failed: %v", err)
	}
	if _, ok := Logger.Handler().(*levelHandler); !ok {
		t.Errorf("handler = %T, want *levelHandler", Logger.Handler())
	}
	if shutdownFunc == nil {
		t.Fatal("EnableOTEL() should register a shutdown hook")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Shutdown(ctx); err != nil {
		t.Logf("Shutdown() without a collector: %v", err)
	}
}

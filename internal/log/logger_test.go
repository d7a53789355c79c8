package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Output: &buf, Component: ComponentArchive})

	l.Info("year advanced", FieldYear, 2025)
	l.WithComponent(ComponentStorage).Debug("saved")

	out := buf.String()
	if !strings.Contains(out, "component=archive") || !strings.Contains(out, "year=2025") {
		t.Errorf("missing archive fields in %q", out)
	}
	if !strings.Contains(out, "component=storage") {
		t.Errorf("missing storage component in %q", out)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Component: ComponentLedger})

	l.LogError(context.Background(), "payment failed", errors.New("boom"), OpPay, NewFields().WithYear(2024))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "error=boom", "operation=pay", "year=2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got.Component() != ComponentApp {
		t.Errorf("default component = %q", got.Component())
	}
	l := Discard().WithComponent(ComponentAMQP)
	if got := FromContext(IntoContext(context.Background(), l)); got != l {
		t.Error("logger not carried by context")
	}
}

package observability

import (
	"context"
	"log/slog"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")

	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("expected req-42, got %q", got)
	}
	if LoggerFromContext(context.Background()) != Logger() {
		t.Fatalf("expected base logger without request id")
	}
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		SetLevel(in)
		if got := level.Level(); got != want {
			t.Fatalf("SetLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

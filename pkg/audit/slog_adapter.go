package audit

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter writes audit events to an slog.Logger.
// Useful for development when you want to see events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("kind", event.Kind.String()),
		slog.String("run_id", event.RunID),
	}

	if event.Serial != "" {
		attrs = append(attrs, slog.String("serial", event.Serial))
	}
	if event.Gateway != "" {
		attrs = append(attrs, slog.String("gateway", event.Gateway))
	}
	if event.Readings > 0 {
		attrs = append(attrs, slog.Int("readings", event.Readings))
	}
	if event.Verified != nil {
		attrs = append(attrs, slog.Bool("verified", *event.Verified))
	}
	if len(event.Issues) > 0 {
		attrs = append(attrs, slog.String("issues", strings.Join(event.Issues, ",")))
	}
	if event.Message != "" {
		attrs = append(attrs, slog.String("error", event.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "audit", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

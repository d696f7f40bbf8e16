package notify

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nba-roster-service/internal/logging"
	"github.com/preston-bernstein/nba-roster-service/internal/metrics"
)

// LogSink writes notifications to a structured logger. Errors log at Warn.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Notify(ctx context.Context, n Notification) {
	logger := logging.FromContext(ctx, s.Logger)
	if logger == nil {
		return
	}
	level := slog.LevelInfo
	if n.Severity != SeveritySuccess {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "notification",
		slog.String("severity", string(n.Severity)),
		slog.String("title", n.Title),
		slog.String("description", n.Description),
	)
}

// MetricsSink counts notifications by severity.
type MetricsSink struct {
	Recorder *metrics.Recorder
}

func (s MetricsSink) Notify(_ context.Context, n Notification) {
	s.Recorder.RecordNotification(string(n.Severity))
}

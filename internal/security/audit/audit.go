package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, mandantUUID, userUUID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("mandant_uuid", mandantUUID),
		slog.String("user_uuid", userUUID),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogLogin(ctx context.Context, username, status string) {
	al.LogAction(ctx, "", "", "login", "session", username, status, "")
}

func (al *Logger) LogUpload(ctx context.Context, mandantUUID, userUUID, nestboxUUID, status, details string) {
	al.LogAction(ctx, mandantUUID, userUUID, "upload", "nestbox", nestboxUUID, status, details)
}

func (al *Logger) LogDenied(ctx context.Context, mandantUUID, userUUID, reason string) {
	al.LogAction(ctx, mandantUUID, userUUID, "access_denied", "api", "", "denied", reason)
}

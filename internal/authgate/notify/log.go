package notify

import (
	"context"
	"log/slog"
	"time"
)

// Log writes passcodes to the logger instead of sending mail. Development
// only; it defeats the factor entirely if anyone can read the logs.
type Log struct {
	Logger *slog.Logger
}

func (l *Log) SendPasscode(ctx context.Context, email, code string, expiresAt time.Time) error {
	l.Logger.WarnContext(ctx, "DEV MODE: passcode not emailed",
		slog.String("email", email),
		slog.String("code", code),
		slog.Time("expires_at", expiresAt),
	)
	return nil
}

func (l *Log) Close() error { return nil }

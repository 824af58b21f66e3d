package interceptor

import (
	"context"
	"log/slog"
	"time"

	"microbatch/internal/core"
)

// Logging пишет начало, завершение и сбой команды в slog.
type Logging struct {
	logger *slog.Logger
}

func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

func (l *Logging) BeforeInvoke(ctx context.Context, inv *core.Invocation) error {
	l.logger.InfoContext(ctx, "batch started", "command", inv.Command(), "request_id", inv.ID)
	return nil
}

func (l *Logging) AfterInvoke(ctx context.Context, inv *core.Invocation, elapsed time.Duration) {
	l.logger.InfoContext(ctx, "batch finished", "command", inv.Command(), "request_id", inv.ID, "elapsed", elapsed)
}

func (l *Logging) OnError(ctx context.Context, inv *core.Invocation, err error) {
	l.logger.ErrorContext(ctx, "batch failed", "command", inv.Command(), "request_id", inv.ID, "err", err)
}

package interceptor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"microbatch/internal/core"
	"microbatch/internal/storage"
)

// Audit записывает каждый запуск команды в журнал.
// Сбой записи журнала только логируется и не меняет результат команды.
type Audit struct {
	sink   storage.RunSink
	logger *slog.Logger
	now    func() time.Time
}

func NewAudit(sink storage.RunSink, logger *slog.Logger) *Audit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Audit{sink: sink, logger: logger, now: time.Now}
}

func (a *Audit) BeforeInvoke(context.Context, *core.Invocation) error { return nil }

func (a *Audit) AfterInvoke(ctx context.Context, inv *core.Invocation, elapsed time.Duration) {
	a.write(ctx, inv, storage.StatusOK, nil, elapsed)
}

func (a *Audit) OnError(ctx context.Context, inv *core.Invocation, err error) {
	status := storage.StatusError
	if errors.Is(err, ErrCommandDenied) {
		status = storage.StatusDenied
	}
	a.write(ctx, inv, status, err, a.now().Sub(inv.Started))
}

func (a *Audit) write(ctx context.Context, inv *core.Invocation, status string, cause error, elapsed time.Duration) {
	if a.sink == nil {
		return
	}
	rec := storage.RunRecord{
		RequestID: inv.ID,
		Command:   inv.Command(),
		Args:      buildArgsPayload(inv),
		Status:    status,
		Duration:  elapsed,
		TS:        inv.Started.UTC(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	// Запись журнала не должна зависеть от отмены команды.
	if err := a.sink.SaveRun(context.WithoutCancel(ctx), rec); err != nil {
		a.logger.Warn("audit write failed", "command", rec.Command, "request_id", rec.RequestID, "err", err)
	}
}

func buildArgsPayload(inv *core.Invocation) []byte {
	payload, _ := json.Marshal(map[string]any{
		"tokens": inv.Tokens,
		"values": inv.Args.Map(),
	})
	return payload
}

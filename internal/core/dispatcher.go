package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Dispatcher выполняет связанную команду ровно один раз за запуск процесса.
type Dispatcher struct {
	interceptor Interceptor
	logger      *slog.Logger
	now         func() time.Time
	dispatched  atomic.Bool
}

// NewDispatcher создает диспетчер; nil-аргументы заменяются заглушками.
func NewDispatcher(interceptor Interceptor, logger *slog.Logger) *Dispatcher {
	if interceptor == nil {
		interceptor = NopInterceptor{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{interceptor: interceptor, logger: logger, now: time.Now}
}

// Dispatch создает обработчик, вызывает хуки перехватчика и дожидается
// завершения команды, даже если она выполняется асинхронно.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *Invocation) error {
	if inv == nil || inv.Descriptor == nil {
		return fmt.Errorf("invocation is nil: %w", ErrInvocation)
	}
	if !d.dispatched.CompareAndSwap(false, true) {
		return ErrAlreadyDispatched
	}
	if inv.ID == "" {
		inv.ID = newRequestID()
	}
	if inv.Out == nil {
		inv.Out = io.Discard
	}
	inv.Started = d.now()
	desc := inv.Descriptor

	handler, err := desc.factory(ctx)
	if err != nil {
		return d.fail(ctx, inv, fmt.Errorf("create handler %s: %w", desc.TypeName, err))
	}
	if aware, ok := handler.(ContextAware); ok {
		aware.SetBatchContext(&BatchContext{
			RequestID: inv.ID,
			Command:   desc.QualifiedName(),
			Args:      append([]string(nil), inv.Tokens...),
			Started:   inv.Started,
			Out:       inv.Out,
			Logger:    d.logger.With("command", desc.QualifiedName(), "request_id", inv.ID),
		})
	}

	if err := d.interceptor.BeforeInvoke(ctx, inv); err != nil {
		return d.fail(ctx, inv, err)
	}

	if err := invoke(ctx, desc, handler, inv.Args).Await(); err != nil {
		return d.fail(ctx, inv, err)
	}
	d.interceptor.AfterInvoke(ctx, inv, d.now().Sub(inv.Started))
	return nil
}

func (d *Dispatcher) fail(ctx context.Context, inv *Invocation, err error) error {
	d.interceptor.OnError(ctx, inv, err)
	return &InvocationError{Command: inv.Command(), Err: err}
}

// invoke превращает панику синхронного обработчика в ошибку результата.
func invoke(ctx context.Context, desc *Descriptor, handler any, args Args) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Done(panicError(p))
		}
	}()
	res = desc.invoke(ctx, handler, args)
	if res == nil {
		res = Done(nil)
	}
	return res
}

func newRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

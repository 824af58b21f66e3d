package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Engine связывает каталог, разбор аргументов и диспетчер.
type Engine struct {
	catalog    *Catalog
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewEngine создает движок поверх готового каталога.
func NewEngine(catalog *Catalog, dispatcher *Dispatcher, logger *slog.Logger) *Engine {
	if dispatcher == nil {
		dispatcher = NewDispatcher(nil, logger)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{catalog: catalog, dispatcher: dispatcher, logger: logger}
}

// Run разбирает argv и выполняет не более одной команды; вывод идет в w.
func (e *Engine) Run(ctx context.Context, w io.Writer, argv []string) error {
	res, err := Resolve(e.catalog, argv)
	if err != nil {
		if errors.Is(err, ErrNoDefaultCommand) {
			e.writeGuidance(w)
		}
		return err
	}

	switch res.Outcome {
	case OutcomeList:
		return WriteList(w, e.catalog)
	case OutcomeHelp:
		if res.Descriptor == nil {
			return WriteHelp(w, e.catalog.Descriptors()...)
		}
		return WriteHelp(w, res.Descriptor)
	case OutcomeHelpNotFound:
		return WriteNotFound(w, res.Query)
	case OutcomeCommand:
	default:
		return fmt.Errorf("unexpected outcome %d", res.Outcome)
	}

	desc := res.Descriptor
	e.logger.Debug("command resolved", "command", desc.QualifiedName(), "tokens", len(res.Remaining))

	args, err := Bind(desc, res.Remaining)
	if err != nil {
		return fmt.Errorf("%s: %w", desc.Name(), err)
	}
	return e.dispatcher.Dispatch(ctx, &Invocation{
		Descriptor: desc,
		Args:       args,
		Tokens:     res.Remaining,
		Out:        w,
	})
}

// writeGuidance подсказывает доступные команды, когда argv пуст, а выполнить нечего.
func (e *Engine) writeGuidance(w io.Writer) {
	if e.catalog.Single() {
		_ = WriteHelp(w, e.catalog.Descriptors()...)
		return
	}
	_ = WriteList(w, e.catalog)
}

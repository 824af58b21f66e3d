package core

import (
	"context"
	"fmt"
)

// Cmd[T] описывает типизированную строку регистрации команды для обработчика T.
// Нужно задать ровно одно из Run и RunAsync.
type Cmd[T any] struct {
	Name     string
	Aliases  []string
	Usage    string
	Params   []ParamSpec
	Run      func(ctx context.Context, h T, args Args) error
	RunAsync func(ctx context.Context, h T, args Args) Result
}

// TypeBuilder собирает HandlerType из типизированных команд.
type TypeBuilder[T any] struct {
	ht HandlerType
}

// NewType начинает регистрацию типа-обработчика T.
func NewType[T any](name string, factory func(ctx context.Context) (T, error)) *TypeBuilder[T] {
	b := &TypeBuilder[T]{ht: HandlerType{Name: name}}
	if factory != nil {
		b.ht.New = func(ctx context.Context) (any, error) {
			return factory(ctx)
		}
	}
	return b
}

// Add добавляет команду. Ошибки в описании всплывут в NewCatalog.
func (b *TypeBuilder[T]) Add(c Cmd[T]) *TypeBuilder[T] {
	m := Method{
		Name:    c.Name,
		Aliases: append([]string(nil), c.Aliases...),
		Usage:   c.Usage,
		Params:  append([]ParamSpec(nil), c.Params...),
	}
	switch {
	case c.Run != nil && c.RunAsync != nil:
		// Invoke остается nil: NewCatalog отклонит такую команду.
	case c.RunAsync != nil:
		run := c.RunAsync
		m.Invoke = func(ctx context.Context, handler any, args Args) Result {
			h, ok := handler.(T)
			if !ok {
				return Done(fmt.Errorf("handler %T is not %s", handler, b.ht.Name))
			}
			return run(ctx, h, args)
		}
	case c.Run != nil:
		run := c.Run
		m.Invoke = func(ctx context.Context, handler any, args Args) Result {
			h, ok := handler.(T)
			if !ok {
				return Done(fmt.Errorf("handler %T is not %s", handler, b.ht.Name))
			}
			return Done(run(ctx, h, args))
		}
	}
	b.ht.Methods = append(b.ht.Methods, m)
	return b
}

// Build возвращает собранную таблицу регистрации.
func (b *TypeBuilder[T]) Build() HandlerType {
	ht := b.ht
	ht.Methods = append([]Method(nil), b.ht.Methods...)
	return ht
}

package core

import (
	"context"
	"time"
)

// Interceptor описывает набор хуков вокруг вызова команды.
type Interceptor interface {
	BeforeInvoke(ctx context.Context, inv *Invocation) error
	AfterInvoke(ctx context.Context, inv *Invocation, elapsed time.Duration)
	OnError(ctx context.Context, inv *Invocation, err error)
}

// NopInterceptor ничего не делает.
type NopInterceptor struct{}

func (NopInterceptor) BeforeInvoke(context.Context, *Invocation) error         { return nil }
func (NopInterceptor) AfterInvoke(context.Context, *Invocation, time.Duration) {}
func (NopInterceptor) OnError(context.Context, *Invocation, error)             {}

type chain []Interceptor

// Chain объединяет перехватчики: BeforeInvoke по порядку до первой ошибки,
// AfterInvoke и OnError в обратном порядке.
func Chain(items ...Interceptor) Interceptor {
	out := make(chain, 0, len(items))
	for _, ic := range items {
		if ic != nil {
			out = append(out, ic)
		}
	}
	return out
}

func (c chain) BeforeInvoke(ctx context.Context, inv *Invocation) error {
	for _, ic := range c {
		if err := ic.BeforeInvoke(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func (c chain) AfterInvoke(ctx context.Context, inv *Invocation, elapsed time.Duration) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].AfterInvoke(ctx, inv, elapsed)
	}
}

func (c chain) OnError(ctx context.Context, inv *Invocation, err error) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].OnError(ctx, inv, err)
	}
}

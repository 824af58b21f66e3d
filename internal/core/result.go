package core

import (
	"fmt"
	"runtime/debug"
)

// Result представляет единый результат вызова: немедленный или ожидающий завершения.
type Result interface {
	Await() error
}

type doneResult struct{ err error }

func (r doneResult) Await() error { return r.err }

// Done возвращает уже завершенный результат.
func Done(err error) Result { return doneResult{err: err} }

type pendingResult struct {
	done chan struct{}
	err  error
}

func (r *pendingResult) Await() error {
	<-r.done
	return r.err
}

// Go запускает fn в отдельной горутине; Await ждет ее завершения.
// Паника внутри fn возвращается как ошибка.
func Go(fn func() error) Result {
	r := &pendingResult{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		defer func() {
			if p := recover(); p != nil {
				r.err = panicError(p)
			}
		}()
		r.err = fn()
	}()
	return r
}

func panicError(p any) error {
	return fmt.Errorf("panic: %v\n%s", p, debug.Stack())
}

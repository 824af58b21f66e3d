package core

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrResolution        = errors.New("resolution error")
	ErrCommandNotFound   = errors.New("command not found")
	ErrNoDefaultCommand  = errors.New("no default command")
	ErrBinding           = errors.New("binding error")
	ErrInvocation        = errors.New("invocation failed")
	ErrAlreadyDispatched = errors.New("command already dispatched")
)

// Коды завершения процесса.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
	ExitConfig = 3
)

// ResolutionError сообщает, что argv не удалось сопоставить с командой.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// BindingError описывает ошибку разбора токенов в аргументы команды.
type BindingError struct {
	Param  string
	Token  string
	Reason string
}

func (e *BindingError) Error() string {
	switch {
	case e.Param != "" && e.Token != "":
		return fmt.Sprintf("parameter %s: %s: %q", e.Param, e.Reason, e.Token)
	case e.Param != "":
		return fmt.Sprintf("parameter %s: %s", e.Param, e.Reason)
	case e.Token != "":
		return fmt.Sprintf("%s: %q", e.Reason, e.Token)
	default:
		return e.Reason
	}
}

func (e *BindingError) Is(target error) bool { return target == ErrBinding }

// InvocationError оборачивает сбой обработчика команды.
type InvocationError struct {
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func (e *InvocationError) Is(target error) bool { return target == ErrInvocation }

// ExitCode переводит результат запуска в код завершения процесса.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfiguration):
		return ExitConfig
	case errors.Is(err, ErrResolution), errors.Is(err, ErrBinding):
		return ExitUsage
	default:
		return ExitFailed
	}
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConfiguration)
}

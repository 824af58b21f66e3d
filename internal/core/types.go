package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Kind задает тип значения параметра и правило его разбора.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindDuration
	KindEnum
	KindStrings
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDuration:
		return "duration"
	case KindEnum:
		return "enum"
	case KindStrings:
		return "strings"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParamSpec описывает один параметр команды.
type ParamSpec struct {
	Name       string
	Kind       Kind
	HasDefault bool
	Default    any
	Values     []string
	Usage      string
	// Position заполняется при построении каталога.
	Position int
}

// Required объявляет обязательный параметр.
func Required(name string, kind Kind) ParamSpec {
	return ParamSpec{Name: name, Kind: kind}
}

// Optional объявляет параметр со значением по умолчанию.
func Optional(name string, kind Kind, def any) ParamSpec {
	return ParamSpec{Name: name, Kind: kind, HasDefault: true, Default: def}
}

// OneOf превращает параметр в перечисление с допустимыми значениями.
func (p ParamSpec) OneOf(values ...string) ParamSpec {
	p.Kind = KindEnum
	p.Values = append([]string(nil), values...)
	return p
}

func (p ParamSpec) WithUsage(usage string) ParamSpec {
	p.Usage = usage
	return p
}

// Factory создает экземпляр обработчика для одного запуска.
type Factory func(ctx context.Context) (any, error)

// InvokeFunc вызывает метод обработчика с уже связанными аргументами.
type InvokeFunc func(ctx context.Context, handler any, args Args) Result

// Method описывает строку таблицы регистрации: метод обработчика и его метаданные.
// Метод без псевдонимов становится командой по умолчанию своего типа.
type Method struct {
	Name    string
	Aliases []string
	Usage   string
	Params  []ParamSpec
	Invoke  InvokeFunc
}

// HandlerType описывает тип-обработчик, предоставляющий команды.
type HandlerType struct {
	Name    string
	New     Factory
	Methods []Method
}

// Descriptor хранит неизменяемые метаданные одной вызываемой команды.
type Descriptor struct {
	TypeName string
	Method   string
	Aliases  []string
	Usage    string
	Params   []ParamSpec

	factory Factory
	invoke  InvokeFunc
}

// IsDefault сообщает, является ли команда командой по умолчанию своего типа.
func (d *Descriptor) IsDefault() bool { return len(d.Aliases) == 0 }

// QualifiedName возвращает имя вида Type.Method.
func (d *Descriptor) QualifiedName() string { return d.TypeName + "." + d.Method }

// RequiresArgs сообщает, есть ли у команды параметры без значения по умолчанию.
func (d *Descriptor) RequiresArgs() bool {
	for _, p := range d.Params {
		if !p.HasDefault {
			return true
		}
	}
	return false
}

// Name возвращает имя, под которым команду удобнее всего вызвать.
func (d *Descriptor) Name() string {
	if len(d.Aliases) > 0 {
		return d.Aliases[0]
	}
	return d.QualifiedName()
}

// Invocation описывает связанный вызов в пределах одного запуска.
type Invocation struct {
	ID         string
	Descriptor *Descriptor
	Args       Args
	Tokens     []string
	Started    time.Time
	Out        io.Writer
}

// Command возвращает полное имя вызываемой команды.
func (inv *Invocation) Command() string { return inv.Descriptor.QualifiedName() }

// BatchContext передается обработчикам, реализующим ContextAware.
type BatchContext struct {
	RequestID string
	Command   string
	Args      []string
	Started   time.Time
	Out       io.Writer
	Logger    *slog.Logger
}

// ContextAware реализуется обработчиками, которым нужен BatchContext.
type ContextAware interface {
	SetBatchContext(bc *BatchContext)
}

// Batch служит встраиваемой базой обработчиков. Ее методы командами не считаются.
type Batch struct {
	Context *BatchContext
}

func (b *Batch) SetBatchContext(bc *BatchContext) { b.Context = bc }

// Out возвращает поток вывода команды.
func (b *Batch) Out() io.Writer {
	if b.Context == nil || b.Context.Out == nil {
		return io.Discard
	}
	return b.Context.Out
}

// Printf пишет в поток вывода команды.
func (b *Batch) Printf(format string, args ...any) {
	fmt.Fprintf(b.Out(), format, args...)
}

// Logger возвращает логгер запуска либо slog.Default.
func (b *Batch) Logger() *slog.Logger {
	if b.Context == nil || b.Context.Logger == nil {
		return slog.Default()
	}
	return b.Context.Logger
}

func joinAliases(aliases []string) string {
	return strings.Join(aliases, ", ")
}

package core

import "time"

// Args хранит связанные значения параметров в порядке их объявления.
type Args struct {
	specs  []ParamSpec
	values []any
}

// NewArgs собирает Args из спецификаций и значений; длины должны совпадать.
func NewArgs(specs []ParamSpec, values []any) Args {
	return Args{specs: specs, values: values}
}

func (a Args) Len() int { return len(a.values) }

// Values возвращает копию упорядоченного списка аргументов.
func (a Args) Values() []any {
	return append([]any(nil), a.values...)
}

// Value ищет значение по имени параметра без учета регистра.
func (a Args) Value(name string) (any, bool) {
	key := normalize(name)
	for i, p := range a.specs {
		if normalize(p.Name) == key && i < len(a.values) {
			return a.values[i], true
		}
	}
	return nil, false
}

func (a Args) String(name string) string {
	v, _ := a.Value(name)
	s, _ := v.(string)
	return s
}

func (a Args) Int(name string) int {
	v, _ := a.Value(name)
	n, _ := v.(int)
	return n
}

func (a Args) Float(name string) float64 {
	v, _ := a.Value(name)
	f, _ := v.(float64)
	return f
}

func (a Args) Bool(name string) bool {
	v, _ := a.Value(name)
	b, _ := v.(bool)
	return b
}

func (a Args) Duration(name string) time.Duration {
	v, _ := a.Value(name)
	d, _ := v.(time.Duration)
	return d
}

func (a Args) Strings(name string) []string {
	v, _ := a.Value(name)
	s, _ := v.([]string)
	return append([]string(nil), s...)
}

// Map возвращает значения по именам параметров; удобно для аудита.
func (a Args) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	for i, p := range a.specs {
		if i < len(a.values) {
			out[p.Name] = a.values[i]
		}
	}
	return out
}

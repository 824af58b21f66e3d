package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Bind превращает оставшиеся токены argv в аргументы команды.
// Флаги задаются парами "-name value" ("--name value", "-name=value"),
// прочие токены связываются по позиции с параметрами, не названными явно.
func Bind(d *Descriptor, tokens []string) (Args, error) {
	params := d.Params
	values := make([]any, len(params))
	set := make([]bool, len(params))
	var positional []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !looksLikeFlag(tok) {
			positional = append(positional, tok)
			continue
		}
		name, inline, hasInline := strings.Cut(strings.TrimLeft(tok, "-"), "=")
		idx := paramIndex(params, name)
		if idx < 0 {
			return Args{}, &BindingError{Token: tok, Reason: "unknown flag"}
		}
		p := params[idx]
		if set[idx] {
			return Args{}, &BindingError{Param: p.Name, Reason: "specified more than once"}
		}

		var raw string
		switch {
		case hasInline:
			raw = inline
		case p.Kind == KindBool:
			raw = "true"
			if i+1 < len(tokens) {
				if isBoolWord(tokens[i+1]) {
					raw = tokens[i+1]
					i++
				}
			}
		case i+1 < len(tokens):
			raw = tokens[i+1]
			i++
		default:
			return Args{}, &BindingError{Param: p.Name, Reason: "missing value"}
		}

		v, err := convert(p, raw)
		if err != nil {
			return Args{}, err
		}
		values[idx] = v
		set[idx] = true
	}

	next := 0
	for idx, p := range params {
		if set[idx] {
			continue
		}
		if next < len(positional) {
			v, err := convert(p, positional[next])
			if err != nil {
				return Args{}, err
			}
			values[idx] = v
			next++
			continue
		}
		if p.HasDefault {
			values[idx] = cloneValue(p.Default)
			continue
		}
		return Args{}, &BindingError{Param: p.Name, Reason: "required"}
	}
	if next < len(positional) {
		return Args{}, &BindingError{Token: positional[next], Reason: "unexpected argument"}
	}
	return NewArgs(params, values), nil
}

// isBoolWord: после bool-флага забирается только true или false, "1" остается позиционным.
func isBoolWord(tok string) bool {
	return equalFold(tok, "true") || equalFold(tok, "false")
}

func paramIndex(params []ParamSpec, name string) int {
	key := normalize(name)
	for i, p := range params {
		if normalize(p.Name) == key {
			return i
		}
	}
	return -1
}

func convert(p ParamSpec, raw string) (any, error) {
	invalid := func() error {
		return &BindingError{Param: p.Name, Token: raw, Reason: "invalid " + p.Kind.String() + " value"}
	}
	switch p.Kind {
	case KindString:
		return raw, nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid()
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, invalid()
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid()
		}
		return b, nil
	case KindDuration:
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid()
		}
		return d, nil
	case KindEnum:
		for _, v := range p.Values {
			if equalFold(v, raw) {
				return v, nil
			}
		}
		return nil, &BindingError{Param: p.Name, Token: raw, Reason: "must be one of " + strings.Join(p.Values, "|")}
	case KindStrings:
		return splitList(raw), nil
	default:
		return nil, invalid()
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cloneValue(v any) any {
	if s, ok := v.([]string); ok {
		return append([]string(nil), s...)
	}
	return v
}

// checkDefault проверяет, что значение по умолчанию соответствует Kind.
func checkDefault(p ParamSpec) error {
	if p.Kind == KindEnum && len(p.Values) == 0 {
		return fmt.Errorf("enum parameter %s has no values", p.Name)
	}
	if !p.HasDefault {
		return nil
	}
	ok := false
	switch p.Kind {
	case KindString:
		_, ok = p.Default.(string)
	case KindInt:
		_, ok = p.Default.(int)
	case KindFloat:
		_, ok = p.Default.(float64)
	case KindBool:
		_, ok = p.Default.(bool)
	case KindDuration:
		_, ok = p.Default.(time.Duration)
	case KindStrings:
		_, ok = p.Default.([]string)
	case KindEnum:
		s, isString := p.Default.(string)
		if isString {
			for _, v := range p.Values {
				if v == s {
					ok = true
					break
				}
			}
		}
	}
	if !ok {
		return fmt.Errorf("parameter %s: default %v does not match kind %s", p.Name, p.Default, p.Kind)
	}
	return nil
}

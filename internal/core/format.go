package core

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteList печатает каждую команду строкой Type.Method в порядке регистрации.
func WriteList(w io.Writer, c *Catalog) error {
	for _, d := range c.descriptors {
		if _, err := fmt.Fprintln(w, d.QualifiedName()); err != nil {
			return err
		}
	}
	return nil
}

// WriteHelp печатает параметры команд в порядке объявления.
func WriteHelp(w io.Writer, descriptors ...*Descriptor) error {
	for i, d := range descriptors {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeDescriptorHelp(w, d); err != nil {
			return err
		}
	}
	return nil
}

// WriteNotFound сообщает, что справка по имени не найдена.
func WriteNotFound(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "Command %q not found, please check %q command.\n", name, ListCommand)
	return err
}

func writeDescriptorHelp(w io.Writer, d *Descriptor) error {
	header := d.QualifiedName()
	if d.IsDefault() {
		header += " (default command)"
	} else {
		header += " (aliases: " + joinAliases(d.Aliases) + ")"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if d.Usage != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", d.Usage); err != nil {
			return err
		}
	}
	if len(d.Params) == 0 {
		_, err := fmt.Fprintln(w, "  No options.")
		return err
	}

	if _, err := fmt.Fprintln(w, "  Options:"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range d.Params {
		fmt.Fprintf(tw, "    -%s\t<%s>\t%s\t%s\n", p.Name, kindLabel(p), requirement(p), p.Usage)
	}
	return tw.Flush()
}

func kindLabel(p ParamSpec) string {
	if p.Kind == KindEnum {
		return strings.Join(p.Values, "|")
	}
	return p.Kind.String()
}

func requirement(p ParamSpec) string {
	if !p.HasDefault {
		return "required"
	}
	return "optional, default: " + formatValue(p.Default)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		if x == "" {
			return `""`
		}
		return x
	case []string:
		return strings.Join(x, ",")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

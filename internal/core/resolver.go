package core

import (
	"errors"
	"strings"
)

// Зарезервированные слова; объявленный пользователем псевдоним имеет приоритет.
const (
	ListCommand = "list"
	HelpCommand = "help"
)

// Outcome определяет, что делать с результатом разбора argv.
type Outcome int

const (
	OutcomeCommand Outcome = iota
	OutcomeList
	OutcomeHelp
	OutcomeHelpNotFound
)

// Resolution описывает результат разбора argv.
type Resolution struct {
	Outcome Outcome
	// Descriptor: команда для запуска или для справки; nil для справки по всему каталогу.
	Descriptor *Descriptor
	Remaining  []string
	// Query содержит имя, для которого справка не нашлась.
	Query string
}

// Resolve сопоставляет argv ровно одной команде каталога.
// Порядок: псевдоним пользователя, затем зарезервированные list/help, затем Type.Method.
func Resolve(c *Catalog, argv []string) (Resolution, error) {
	if len(argv) == 0 {
		return resolveEmpty(c)
	}

	first := argv[0]
	if len(argv) == 1 && equalFold(first, ListCommand) && !c.HasAlias(ListCommand) {
		return Resolution{Outcome: OutcomeList}, nil
	}

	if equalFold(first, HelpCommand) && !c.HasAlias(HelpCommand) {
		switch len(argv) {
		case 1:
			return Resolution{Outcome: OutcomeHelp}, nil
		case 2:
			if d, ok := lookupCommand(c, argv[1]); ok {
				return Resolution{Outcome: OutcomeHelp, Descriptor: d}, nil
			}
			return Resolution{Outcome: OutcomeHelpNotFound, Query: argv[1]}, nil
		default:
			return Resolution{}, &ResolutionError{Name: HelpCommand, Err: errors.New("expected at most one command name")}
		}
	}

	if c.Single() && looksLikeFlag(first) {
		if d, ok := c.Default(); ok {
			return Resolution{Outcome: OutcomeCommand, Descriptor: d, Remaining: argv}, nil
		}
	}

	if d, ok := lookupCommand(c, first); ok {
		return Resolution{Outcome: OutcomeCommand, Descriptor: d, Remaining: argv[1:]}, nil
	}
	return Resolution{}, &ResolutionError{Name: first, Err: ErrCommandNotFound}
}

func resolveEmpty(c *Catalog) (Resolution, error) {
	if c.Single() {
		if d, ok := c.Default(); ok && !d.RequiresArgs() {
			return Resolution{Outcome: OutcomeCommand, Descriptor: d, Remaining: []string{}}, nil
		}
		if c.HasAlias(HelpCommand) {
			return Resolve(c, []string{HelpCommand})
		}
	}
	return Resolution{}, &ResolutionError{Err: ErrNoDefaultCommand}
}

// lookupCommand: сначала точный псевдоним, затем запасной вариант Type.Method.
func lookupCommand(c *Catalog, name string) (*Descriptor, bool) {
	if d, ok := c.Lookup(name); ok {
		return d, true
	}
	if strings.Count(name, ".") != 1 {
		return nil, false
	}
	typeName, method, _ := strings.Cut(name, ".")
	if typeName == "" || method == "" {
		return nil, false
	}
	return c.LookupQualified(typeName, method)
}

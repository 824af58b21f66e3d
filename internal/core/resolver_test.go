package core

import (
	"errors"
	"testing"
)

func mustCatalog(t *testing.T, types ...HandlerType) *Catalog {
	t.Helper()
	c, err := NewCatalog(types...)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestResolveAliasAndQualifiedName(t *testing.T) {
	c := mustCatalog(t,
		recorderType("Alpha", Cmd[*recorder]{Name: "Run", Aliases: []string{"run"}, Run: noop}),
		recorderType("Beta", Cmd[*recorder]{Name: "Run", Run: noop}),
	)

	res, err := Resolve(c, []string{"RUN", "-x", "1"})
	if err != nil {
		t.Fatalf("resolve alias: %v", err)
	}
	if res.Outcome != OutcomeCommand || res.Descriptor.QualifiedName() != "Alpha.Run" {
		t.Fatalf("unexpected resolution: %#v", res)
	}
	if len(res.Remaining) != 2 || res.Remaining[0] != "-x" {
		t.Fatalf("unexpected remaining tokens: %#v", res.Remaining)
	}

	res, err = Resolve(c, []string{"beta.run"})
	if err != nil {
		t.Fatalf("resolve qualified: %v", err)
	}
	if res.Descriptor.QualifiedName() != "Beta.Run" {
		t.Fatalf("expected Beta.Run, got %s", res.Descriptor.QualifiedName())
	}
}

func TestResolveUnknownCommand(t *testing.T) {
	c := mustCatalog(t, recorderType("Alpha", Cmd[*recorder]{Name: "Run", Aliases: []string{"run"}, Run: noop}))
	for _, argv := range [][]string{{"walk"}, {"Alpha.Walk"}, {"a.b.c"}, {"list", "extra"}} {
		_, err := Resolve(c, argv)
		if !errors.Is(err, ErrResolution) {
			t.Fatalf("%v: expected ErrResolution, got %v", argv, err)
		}
		if !errors.Is(err, ErrCommandNotFound) {
			t.Fatalf("%v: expected ErrCommandNotFound, got %v", argv, err)
		}
	}
}

func TestResolveReservedWords(t *testing.T) {
	c := mustCatalog(t, recorderType("Alpha", Cmd[*recorder]{Name: "Run", Aliases: []string{"run"}, Run: noop}))

	res, err := Resolve(c, []string{"LIST"})
	if err != nil || res.Outcome != OutcomeList {
		t.Fatalf("expected list outcome, got %#v, %v", res, err)
	}

	res, err = Resolve(c, []string{"help"})
	if err != nil || res.Outcome != OutcomeHelp || res.Descriptor != nil {
		t.Fatalf("expected help for catalog, got %#v, %v", res, err)
	}

	res, err = Resolve(c, []string{"help", "Alpha.Run"})
	if err != nil || res.Outcome != OutcomeHelp || res.Descriptor == nil {
		t.Fatalf("expected help for command, got %#v, %v", res, err)
	}

	res, err = Resolve(c, []string{"help", "unknownCommand"})
	if err != nil {
		t.Fatalf("help for unknown command must not fail: %v", err)
	}
	if res.Outcome != OutcomeHelpNotFound || res.Query != "unknownCommand" {
		t.Fatalf("expected not found outcome, got %#v", res)
	}

	if _, err := Resolve(c, []string{"help", "a", "b"}); !errors.Is(err, ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestResolveUserAliasOverridesReservedWord(t *testing.T) {
	c := mustCatalog(t, recorderType("Alpha",
		Cmd[*recorder]{Name: "Show", Aliases: []string{"list"}, Run: noop},
		Cmd[*recorder]{Name: "Manual", Aliases: []string{"Help"}, Run: noop},
	))
	res, err := Resolve(c, []string{"list"})
	if err != nil || res.Outcome != OutcomeCommand || res.Descriptor.Method != "Show" {
		t.Fatalf("expected user list command, got %#v, %v", res, err)
	}
	res, err = Resolve(c, []string{"help", "x"})
	if err != nil || res.Outcome != OutcomeCommand || res.Descriptor.Method != "Manual" {
		t.Fatalf("expected user help command, got %#v, %v", res, err)
	}
	if len(res.Remaining) != 1 || res.Remaining[0] != "x" {
		t.Fatalf("unexpected remaining: %#v", res.Remaining)
	}
}

func TestResolveEmptyArgv(t *testing.T) {
	t.Run("default without required params", func(t *testing.T) {
		c := mustCatalog(t, recorderType("Alpha", Cmd[*recorder]{
			Name:   "Main",
			Params: []ParamSpec{Optional("n", KindInt, 1)},
			Run:    noop,
		}))
		res, err := Resolve(c, nil)
		if err != nil || res.Outcome != OutcomeCommand || res.Descriptor.Method != "Main" {
			t.Fatalf("expected default command, got %#v, %v", res, err)
		}
		if len(res.Remaining) != 0 {
			t.Fatalf("expected no remaining tokens")
		}
	})

	t.Run("default with required params", func(t *testing.T) {
		c := mustCatalog(t, recorderType("Alpha", Cmd[*recorder]{
			Name:   "Main",
			Params: []ParamSpec{Required("n", KindInt)},
			Run:    noop,
		}))
		if _, err := Resolve(c, nil); !errors.Is(err, ErrNoDefaultCommand) {
			t.Fatalf("expected ErrNoDefaultCommand, got %v", err)
		}
	})

	t.Run("help on empty", func(t *testing.T) {
		c := mustCatalog(t, recorderType("Alpha",
			Cmd[*recorder]{Name: "Usage", Aliases: []string{"help"}, Run: noop},
		))
		res, err := Resolve(c, []string{})
		if err != nil || res.Outcome != OutcomeCommand || res.Descriptor.Method != "Usage" {
			t.Fatalf("expected help-on-empty command, got %#v, %v", res, err)
		}
	})

	t.Run("multiple types", func(t *testing.T) {
		c := mustCatalog(t,
			recorderType("Alpha", Cmd[*recorder]{Name: "Main", Run: noop}),
			recorderType("Beta", Cmd[*recorder]{Name: "Main", Run: noop}),
		)
		if _, err := Resolve(c, nil); !errors.Is(err, ErrNoDefaultCommand) {
			t.Fatalf("expected ErrNoDefaultCommand, got %v", err)
		}
	})
}

func TestResolveFlagsGoToDefaultCommand(t *testing.T) {
	c := mustCatalog(t, recorderType("Alpha",
		Cmd[*recorder]{Name: "Main", Params: []ParamSpec{Required("n", KindInt)}, Run: noop},
		Cmd[*recorder]{Name: "Other", Aliases: []string{"other"}, Run: noop},
	))
	res, err := Resolve(c, []string{"-n", "3"})
	if err != nil || res.Descriptor.Method != "Main" {
		t.Fatalf("expected default command, got %#v, %v", res, err)
	}
	if len(res.Remaining) != 2 {
		t.Fatalf("expected flags to be kept, got %#v", res.Remaining)
	}
}

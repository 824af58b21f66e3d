package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"microbatch/internal/core"
)

type echo struct {
	core.Batch
}

func newEngine(t *testing.T) *core.Engine {
	t.Helper()
	ht := core.NewType("Echo", func(ctx context.Context) (*echo, error) {
		return &echo{}, nil
	}).Add(core.Cmd[*echo]{
		Name:    "Say",
		Aliases: []string{"say"},
		Params:  []core.ParamSpec{core.Required("text", core.KindString)},
		Run: func(ctx context.Context, h *echo, args core.Args) error {
			h.Printf("%s\n", args.String("text"))
			return nil
		},
	}).Build()
	catalog, err := core.NewCatalog(ht)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return core.NewEngine(catalog, nil, nil)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(newEngine(t), "1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootPassesFlagsToEngine(t *testing.T) {
	out, err := execute(t, "say", "-text", "hello")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRootList(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Echo.Say") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRootVersion(t *testing.T) {
	out, err := execute(t, VersionFlag)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "1.2.3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRootReturnsEngineError(t *testing.T) {
	_, err := execute(t, "say")
	if !errors.Is(err, core.ErrBinding) {
		t.Fatalf("expected binding error, got %v", err)
	}
	if core.ExitCode(err) != core.ExitUsage {
		t.Fatalf("unexpected exit code %d", core.ExitCode(err))
	}
}

package interceptor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"microbatch/internal/core"
)

// ErrCommandDenied возвращается, когда команда не входит в allowlist.
var ErrCommandDenied = errors.New("command is not allowed")

// Allowlist реализует deny-by-default по именам команд.
// Шаблоны: "Type.Method", "Type.*", "*" или псевдоним команды.
type Allowlist struct {
	allowed map[string]struct{}
}

// NewAllowlist создает allowlist; пустые шаблоны пропускаются.
func NewAllowlist(patterns []string) *Allowlist {
	allowed := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		allowed[fold(p)] = struct{}{}
	}
	return &Allowlist{allowed: allowed}
}

// Authorize возвращает ошибку, если команда не разрешена.
func (a *Allowlist) Authorize(d *core.Descriptor) error {
	if d == nil {
		return fmt.Errorf("empty command: %w", ErrCommandDenied)
	}
	candidates := []string{"*", d.QualifiedName(), d.TypeName + ".*"}
	candidates = append(candidates, d.Aliases...)
	for _, c := range candidates {
		if _, ok := a.allowed[fold(c)]; ok {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", d.QualifiedName(), ErrCommandDenied)
}

func (a *Allowlist) BeforeInvoke(ctx context.Context, inv *core.Invocation) error {
	return a.Authorize(inv.Descriptor)
}

func (a *Allowlist) AfterInvoke(context.Context, *core.Invocation, time.Duration) {}

func (a *Allowlist) OnError(context.Context, *core.Invocation, error) {}

func fold(s string) string {
	return cases.Fold().String(s)
}

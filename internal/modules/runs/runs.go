package runs

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"microbatch/internal/core"
	"microbatch/internal/storage"
)

// TypeName задает имя типа-обработчика в каталоге.
const TypeName = "Runs"

const statusAny = "any"

// Batch предоставляет команды журнала запусков.
type Batch struct {
	core.Batch
	stores storage.Opener
	now    func() time.Time
}

// Type регистрирует команды history и prune; retentionDays задает срок хранения по умолчанию.
func Type(stores storage.Opener, retentionDays int) core.HandlerType {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return core.NewType(TypeName, func(ctx context.Context) (*Batch, error) {
		return &Batch{stores: stores, now: time.Now}, nil
	}).
		Add(core.Cmd[*Batch]{
			Name:    "History",
			Aliases: []string{"history", "runs"},
			Usage:   "Show recorded command runs, newest first.",
			Params: []core.ParamSpec{
				core.Optional("command", core.KindString, "").WithUsage("filter by Type.Method"),
				core.Optional("status", core.KindEnum, statusAny).
					OneOf(storage.StatusOK, storage.StatusError, storage.StatusDenied, statusAny).
					WithUsage("filter by run status"),
				core.Optional("limit", core.KindInt, 20).WithUsage("maximum rows to show"),
			},
			Run: func(ctx context.Context, b *Batch, args core.Args) error {
				return b.History(ctx, args.String("command"), args.String("status"), args.Int("limit"))
			},
		}).
		Add(core.Cmd[*Batch]{
			Name:    "Prune",
			Aliases: []string{"prune"},
			Usage:   "Delete run records older than the given number of days.",
			Params: []core.ParamSpec{
				core.Optional("days", core.KindInt, retentionDays).WithUsage("retention in days"),
			},
			Run: func(ctx context.Context, b *Batch, args core.Args) error {
				return b.Prune(ctx, args.Int("days"))
			},
		}).
		Build()
}

// History печатает журнал запусков таблицей.
func (b *Batch) History(ctx context.Context, command, status string, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive: %d", limit)
	}
	if status == statusAny {
		status = ""
	}
	st, err := b.stores.Open()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	recs, err := st.QueryRuns(ctx, storage.RunQuery{Command: command, Status: status, Limit: limit})
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		b.Printf("no runs recorded\n")
		return nil
	}

	tw := tabwriter.NewWriter(b.Out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCOMMAND\tSTATUS\tDURATION\tREQUEST\tERROR")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.TS.Format(time.RFC3339), rec.Command, rec.Status, rec.Duration, rec.RequestID, rec.Error)
	}
	return tw.Flush()
}

// Prune удаляет записи старше days дней.
func (b *Batch) Prune(ctx context.Context, days int) error {
	if days <= 0 {
		return fmt.Errorf("days must be positive: %d", days)
	}
	st, err := b.stores.Open()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	before := b.now().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := st.PruneRuns(ctx, before)
	if err != nil {
		return err
	}
	b.Logger().Info("runs pruned", "before", before.UTC(), "deleted", n)
	b.Printf("deleted %d run(s) older than %s\n", n, before.UTC().Format(time.RFC3339))
	return nil
}

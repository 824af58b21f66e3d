package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"microbatch/internal/core"
	"microbatch/internal/schedule"
	"microbatch/internal/storage"
)

// TypeName задает имя типа-обработчика в каталоге.
const TypeName = "Host"

const sampleSource = "host"

// Status описывает срез состояния узла.
type Status struct {
	Hostname    string  `json:"hostname"`
	Platform    string  `json:"platform"`
	PlatformVer string  `json:"platformVer"`
	Kernel      string  `json:"kernel"`
	UptimeSec   uint64  `json:"uptime_sec"`
	BootTime    string  `json:"boot_time"`
	MemTotal    uint64  `json:"mem_total"`
	MemUsed     uint64  `json:"mem_used"`
	MemUsedPct  float64 `json:"mem_used_pct"`
	Load1       float64 `json:"load1"`
	Load5       float64 `json:"load5"`
	Load15      float64 `json:"load15"`
}

// Collector снимает состояние узла.
type Collector func(ctx context.Context) (Status, error)

// Batch предоставляет команды по метрикам узла.
type Batch struct {
	core.Batch
	stores  storage.Opener
	collect Collector
}

// Type регистрирует команды Host: Status (по умолчанию), sample, latest.
func Type(stores storage.Opener) core.HandlerType {
	return newType(stores, Collect)
}

func newType(stores storage.Opener, collect Collector) core.HandlerType {
	return core.NewType(TypeName, func(ctx context.Context) (*Batch, error) {
		return &Batch{stores: stores, collect: collect}, nil
	}).
		Add(core.Cmd[*Batch]{
			Name:  "Status",
			Usage: "Print host status as JSON.",
			Params: []core.ParamSpec{
				core.Optional("pretty", core.KindBool, true).WithUsage("indent JSON output"),
			},
			Run: func(ctx context.Context, b *Batch, args core.Args) error {
				return b.Status(ctx, args.Bool("pretty"))
			},
		}).
		Add(core.Cmd[*Batch]{
			Name:    "Sample",
			Aliases: []string{"sample"},
			Usage:   "Collect host status on an interval until count is reached or the process is interrupted.",
			Params: []core.ParamSpec{
				core.Optional("interval", core.KindDuration, time.Second).WithUsage("time between samples"),
				core.Optional("count", core.KindInt, 3).WithUsage("number of samples, 0 runs until interrupted"),
				core.Optional("save", core.KindBool, false).WithUsage("store samples in the state database"),
			},
			RunAsync: func(ctx context.Context, b *Batch, args core.Args) core.Result {
				interval, count, save := args.Duration("interval"), args.Int("count"), args.Bool("save")
				return core.Go(func() error {
					return b.Sample(ctx, interval, count, save)
				})
			},
		}).
		Add(core.Cmd[*Batch]{
			Name:    "Latest",
			Aliases: []string{"latest"},
			Usage:   "Print the most recent stored host sample.",
			Run: func(ctx context.Context, b *Batch, args core.Args) error {
				return b.Latest(ctx)
			},
		}).
		Build()
}

// Status печатает текущее состояние узла.
func (b *Batch) Status(ctx context.Context, pretty bool) error {
	st, err := b.collect(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(b.Out())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(st)
}

// Sample снимает состояние count раз с интервалом; прерывание не считается ошибкой.
func (b *Batch) Sample(ctx context.Context, interval time.Duration, count int, save bool) error {
	if count < 0 {
		return fmt.Errorf("count must not be negative: %d", count)
	}
	var st storage.Store
	if save {
		opened, err := b.stores.Open()
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		st = opened
	}

	var mu sync.Mutex
	sched := schedule.New(interval)
	sched.Add(func(ctx context.Context, tick int) error {
		s, err := b.collect(ctx)
		if err != nil {
			return fmt.Errorf("sample %d: %w", tick, err)
		}
		mu.Lock()
		b.Printf("%d\t%s\tload1=%.2f\tmem_used_pct=%.1f\n", tick, s.Hostname, s.Load1, s.MemUsedPct)
		mu.Unlock()
		if st == nil {
			return nil
		}
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal sample: %w", err)
		}
		return st.SaveSample(ctx, storage.Sample{Source: sampleSource, Payload: payload})
	})

	err := sched.Run(ctx, count)
	if ctx.Err() != nil {
		b.Logger().Info("sampling interrupted", "reason", ctx.Err())
	}
	return err
}

// Latest печатает последний сохраненный срез.
func (b *Batch) Latest(ctx context.Context) error {
	st, err := b.stores.Open()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	sample, err := st.LatestSample(ctx, sampleSource)
	if errors.Is(err, storage.ErrNotFound) {
		b.Printf("no samples recorded\n")
		return nil
	}
	if err != nil {
		return err
	}
	b.Printf("%s\n%s\n", sample.TS.Format(time.RFC3339), sample.Payload)
	return nil
}

// Collect снимает состояние узла через gopsutil.
func Collect(ctx context.Context) (Status, error) {
	hInfo, err := host.InfoWithContext(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("host info: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("memory info: %w", err)
	}
	ld, err := load.AvgWithContext(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("load info: %w", err)
	}
	return Status{
		Hostname:    hInfo.Hostname,
		Platform:    hInfo.Platform,
		PlatformVer: hInfo.PlatformVersion,
		Kernel:      hInfo.KernelVersion,
		UptimeSec:   hInfo.Uptime,
		BootTime:    time.Unix(int64(hInfo.BootTime), 0).UTC().Format(time.RFC3339),
		MemTotal:    vm.Total,
		MemUsed:     vm.Used,
		MemUsedPct:  vm.UsedPercent,
		Load1:       ld.Load1,
		Load5:       ld.Load5,
		Load15:      ld.Load15,
	}, nil
}

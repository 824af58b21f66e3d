package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"microbatch/internal/app"
	"microbatch/internal/cli"
	"microbatch/internal/config"
	"microbatch/internal/core"
	"microbatch/pkg/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return core.ExitConfig
	}
	lg := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	lg.Debug("starting", "version", buildVersion())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, lg)
	if err != nil {
		lg.Error("init failed", "err", err)
		return core.ExitCode(err)
	}

	err = cli.New(a.Engine, buildVersion()).ExecuteContext(ctx)
	if cerr := a.Close(); cerr != nil {
		lg.Warn("close storage", "err", cerr)
	}
	if err != nil {
		if !errors.Is(err, core.ErrNoDefaultCommand) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		lg.Error("command failed", "err", err)
	}
	return core.ExitCode(err)
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}

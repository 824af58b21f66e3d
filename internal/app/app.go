package app

import (
	"fmt"
	"log/slog"
	"strings"

	"microbatch/internal/config"
	"microbatch/internal/core"
	"microbatch/internal/interceptor"
	"microbatch/internal/modules/host"
	"microbatch/internal/modules/runs"
	"microbatch/internal/storage/sqlite"
)

// App агрегирует зависимости движка.
type App struct {
	Engine *core.Engine
	Config config.Config

	store *sqlite.Lazy
}

// New строит приложение: хранилище, каталог, перехватчики и движок.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	store := sqlite.NewLazy(cfg.Storage.Path)

	types, err := selectTypes(cfg.Engine.SingleType,
		host.Type(store),
		runs.Type(store, cfg.Storage.RetentionDays),
	)
	if err != nil {
		return nil, err
	}
	catalog, err := core.NewCatalog(types...)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	hooks := []core.Interceptor{interceptor.NewLogging(logger)}
	if len(cfg.Security.CommandAllowlist) > 0 {
		hooks = append(hooks, interceptor.NewAllowlist(cfg.Security.CommandAllowlist))
	}
	if cfg.Audit.Enabled {
		hooks = append(hooks, interceptor.NewAudit(store, logger))
	}

	dispatcher := core.NewDispatcher(core.Chain(hooks...), logger)
	return &App{
		Engine: core.NewEngine(catalog, dispatcher, logger),
		Config: cfg,
		store:  store,
	}, nil
}

// Close высвобождает ресурсы приложения.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func selectTypes(single string, all ...core.HandlerType) ([]core.HandlerType, error) {
	single = strings.TrimSpace(single)
	if single == "" {
		return all, nil
	}
	for _, ht := range all {
		if strings.EqualFold(ht.Name, single) {
			return []core.HandlerType{ht}, nil
		}
	}
	names := make([]string, 0, len(all))
	for _, ht := range all {
		names = append(names, ht.Name)
	}
	return nil, fmt.Errorf("engine.single_type %q is not one of %s: %w", single, strings.Join(names, ", "), core.ErrConfiguration)
}

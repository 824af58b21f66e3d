package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"microbatch/internal/core"
)

// VersionFlag печатает версию вместо запуска команды, если передан единственным аргументом.
const VersionFlag = "--version"

// New создает корневую CLI-команду; argv целиком передается движку.
func New(engine *core.Engine, version string) *cobra.Command {
	return &cobra.Command{
		Use:                "microbatch [command] [-param value ...]",
		Short:              "Запуск пакетных команд из каталога обработчиков",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == VersionFlag {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version)
				return nil
			}
			return engine.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"budgetsheet/internal/backend"
	"budgetsheet/internal/cli"
	"budgetsheet/internal/config"
	"budgetsheet/internal/log"
	"budgetsheet/internal/services"
)

// runtime state shared by subcommands, set up in PersistentPreRunE.
var (
	appConfig *config.Config
	appLogger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "budgetsheet",
	Short:         "Aggregate monthly budget sheets into chapter/section/item/type trees",
	Long:          "budgetsheet reads the leaf values of a monthly budget sheet, sums them up the chart of accounts and prints the non-zero branches as JSON.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile != "" {
			cli.LoadEnvFile(envFile)
		} else {
			cli.LoadEnvFile()
		}
		cfg, err := cli.LoadAndValidateConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		appLogger = cli.SetupLogger(cfg, cmd.ErrOrStderr())
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "dotenv file to load (default .env)")
}

// newProcessor wires a processor from the loaded configuration. The caller
// must close the returned backend.
func newProcessor(ctx context.Context) (*services.BudgetProcessor, *backend.Result, error) {
	bcfg, err := backend.FromAppConfig(appConfig)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(appLogger).Create(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	proc := services.NewBudgetProcessor(res.Catalogs, res.Source,
		services.BudgetProcessorConfig{Concurrency: appConfig.BatchConcurrency}, appLogger)
	return proc, res, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

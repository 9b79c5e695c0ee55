package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budgetsheet/internal/backend"
	"budgetsheet/internal/catalog"
	"budgetsheet/internal/cli"
	"budgetsheet/internal/log"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage the chart of accounts",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), c, true)
		}
		data, err := c.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report dangling links, unlinked nodes and layout problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		issues := c.Check()
		out := cmd.OutOrStdout()
		for _, is := range issues {
			fmt.Fprintln(out, is.String())
		}
		fmt.Fprintf(out, "%d chapters, %d sections, %d items, %d types, %d layout cells, %d issues\n",
			len(c.Chapters), len(c.Sections), len(c.Items), len(c.Types), len(c.Layout.Cells), len(issues))
		return nil
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the SQLite catalog store with a TOML catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		repo, err := cli.OpenCatalogStore(appLogger, appConfig.SQLiteDBPath)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.SaveCatalog(cmd.Context(), c); err != nil {
			return err
		}
		appLogger.InfoContext(cmd.Context(), "Catalog imported",
			log.FieldOperation, log.OpImport, "file", args[0], "db_path", appConfig.SQLiteDBPath)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the configured catalog as TOML to FILE or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		data, err := c.Marshal()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		appLogger.InfoContext(cmd.Context(), "Catalog exported", log.FieldOperation, log.OpExport, "file", args[0])
		return nil
	},
}

func init() {
	catalogShowCmd.Flags().Bool("json", false, "print JSON instead of TOML")
	catalogCmd.AddCommand(catalogShowCmd, catalogCheckCmd, catalogImportCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}

// loadCatalog resolves the catalog from the configured backend without
// opening a value source.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	bcfg, err := backend.FromAppConfig(appConfig)
	if err != nil {
		return nil, err
	}
	bcfg.Source = backend.MemorySource
	res, err := backend.NewFactory(appLogger).Create(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return res.Catalogs.Catalog(ctx)
}

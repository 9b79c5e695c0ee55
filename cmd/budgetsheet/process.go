package main

import (
	"errors"

	"github.com/spf13/cobra"

	"budgetsheet/internal/core"
	"budgetsheet/internal/services"
)

var errReportFailed = errors.New("processing failed")

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one monthly sheet and print its report",
	Example: `  budgetsheet process --ref 2024 --month 3
  budgetsheet process --ref ./exports/march.csv --month 3 --summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := requestFromFlags(cmd)
		month, _ := cmd.Flags().GetInt("month")
		req.Month = month

		proc, res, err := newProcessor(cmd.Context())
		if err != nil {
			return err
		}
		defer res.Close()

		report := proc.Process(cmd.Context(), req)
		pretty, _ := cmd.Flags().GetBool("pretty")
		if err := writeJSON(cmd.OutOrStdout(), report, pretty); err != nil {
			return err
		}
		if report.Failed() {
			return errReportFailed
		}
		return nil
	},
}

func init() {
	addSheetFlags(processCmd)
	processCmd.Flags().Int("month", 0, "month of the sheet (1-12)")
	_ = processCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(processCmd)
}

func addSheetFlags(cmd *cobra.Command) {
	cmd.Flags().String("ref", "", "workbook reference: csv directory or file, or spreadsheet id")
	cmd.Flags().Int("sheet", 1, "sheet number within the month (1 or 2)")
	cmd.Flags().Bool("summary", false, "omit hierarchical rows")
	cmd.Flags().Bool("pretty", false, "indent JSON output")
}

func requestFromFlags(cmd *cobra.Command) services.ProcessRequest {
	ref, _ := cmd.Flags().GetString("ref")
	sheet, _ := cmd.Flags().GetInt("sheet")
	summary, _ := cmd.Flags().GetBool("summary")

	mode := core.ProjectHierarchical
	if summary {
		mode = core.ProjectSummary
	}
	return services.ProcessRequest{Ref: ref, SheetNumber: sheet, Mode: mode}
}

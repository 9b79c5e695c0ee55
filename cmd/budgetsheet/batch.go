package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process the same sheet for several months",
	Example: `  budgetsheet batch --ref 2024 --months 1-12
  budgetsheet batch --ref 2024 --months 1,4,7-9 --summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := requestFromFlags(cmd)
		spec, _ := cmd.Flags().GetString("months")
		months, err := parseMonths(spec)
		if err != nil {
			return err
		}

		proc, res, err := newProcessor(cmd.Context())
		if err != nil {
			return err
		}
		defer res.Close()

		reports, err := proc.ProcessMonths(cmd.Context(), req, months)
		if err != nil {
			return err
		}
		pretty, _ := cmd.Flags().GetBool("pretty")
		if err := writeJSON(cmd.OutOrStdout(), reports, pretty); err != nil {
			return err
		}
		for _, r := range reports {
			if r.Failed() {
				return errReportFailed
			}
		}
		return nil
	},
}

func init() {
	addSheetFlags(batchCmd)
	batchCmd.Flags().String("months", "1-12", "months to process: a list of months and ranges, e.g. 1,3,5-7")
	rootCmd.AddCommand(batchCmd)
}

// parseMonths expands "1,3,5-7" into [1 3 5 6 7]. Duplicates are dropped
// and order of first appearance is kept.
func parseMonths(spec string) ([]int, error) {
	var months []int
	seen := make(map[int]bool)
	add := func(m int) error {
		if m < 1 || m > 12 {
			return fmt.Errorf("month %d out of range 1-12", m)
		}
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
		return nil
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid month %q", part)
		}
		to := from
		if isRange {
			if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid month range %q", part)
			}
			if to < from {
				return nil, fmt.Errorf("invalid month range %q: end before start", part)
			}
		}
		for m := from; m <= to; m++ {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("no months given")
	}
	return months, nil
}

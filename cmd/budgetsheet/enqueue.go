package main

import (
	"time"

	"github.com/spf13/cobra"

	"budgetsheet/internal/amqp"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Queue a sheet for processing by budgetsheet-worker",
	Example: `  budgetsheet enqueue --ref 2024 --month 3 --year 2024 --directorate north --file-name budget-2024.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appConfig.RequireAMQP(); err != nil {
			return err
		}
		ref, _ := cmd.Flags().GetString("ref")
		month, _ := cmd.Flags().GetInt("month")
		sheet, _ := cmd.Flags().GetInt("sheet")
		year, _ := cmd.Flags().GetInt("year")
		fileName, _ := cmd.Flags().GetString("file-name")
		directorate, _ := cmd.Flags().GetString("directorate")

		msg := amqp.NewProcessRequestMessage(ref, fileName, year, month, sheet, directorate)
		if err := msg.Validate(); err != nil {
			return err
		}

		client, err := amqp.NewClient(amqpConfig(), appLogger)
		if err != nil {
			return err
		}
		defer client.Close()
		return client.PublishProcessRequest(cmd.Context(), msg)
	},
}

func init() {
	enqueueCmd.Flags().String("ref", "", "workbook reference: csv directory or file, or spreadsheet id (default: the worker's configured workbook)")
	enqueueCmd.Flags().Int("month", 0, "month of the sheet (1-12)")
	enqueueCmd.Flags().Int("sheet", 1, "sheet number within the month (1 or 2)")
	enqueueCmd.Flags().Int("year", time.Now().Year(), "budget year")
	enqueueCmd.Flags().String("file-name", "", "source file name forwarded with the report")
	enqueueCmd.Flags().String("directorate", "", "directorate the workbook belongs to")
	_ = enqueueCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(enqueueCmd)
}

func amqpConfig() amqp.Config {
	return amqp.Config{
		URL:          appConfig.AMQPURL,
		Exchange:     appConfig.AMQPExchange,
		RequestQueue: appConfig.AMQPRequestQueue,
		ResultQueue:  appConfig.AMQPResultQueue,
	}
}

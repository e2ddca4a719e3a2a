package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"property-service/config"
	"property-service/reports"

	"github.com/spf13/cobra"
)

var (
	reportFrom   string
	reportTo     string
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the financial report to a PDF or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := reports.LastMonths(time.Now().UTC(), 6)
		var err error
		if reportFrom != "" {
			if from, err = reports.ParseMonth(reportFrom); err != nil {
				return err
			}
		}
		if reportTo != "" {
			if to, err = reports.ParseMonth(reportTo); err != nil {
				return err
			}
		}
		if err := reports.CheckWindow(from, to); err != nil {
			return err
		}
		write := reports.WritePDF
		switch reportFormat {
		case "pdf":
		case "xlsx":
			write = reports.WriteExcel
		default:
			return fmt.Errorf("unsupported format %q (pdf or xlsx)", reportFormat)
		}

		db, err := config.OpenDB()
		if err != nil {
			return err
		}
		in, err := reports.Load(context.Background(), db, from, to, config.Config.ManagementFeePercent)
		if err != nil {
			return err
		}
		report := reports.Build(in)

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("report-%s-%s.%s", report.From, report.To, reportFormat)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := write(f, report); err != nil {
			return err
		}
		config.Config.Logger.Infof("Report for %s written to %s", report.Period, out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first month, YYYY-MM (default: five months ago)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last month, YYYY-MM (default: this month)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "pdf", "pdf or xlsx")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file")
}

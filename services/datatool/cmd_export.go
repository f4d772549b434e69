package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export range and threshold filtered readings to CSV or Parquet",
	Long: `Export readings within a date range. When --column or --min is given the
threshold filter is applied as well. The output format follows the --out
extension (.parquet or .csv).`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("source", "", "Readings CSV path (default $DATA_SOURCE)")
	exportCmd.Flags().String("out", "", "Output path (.csv or .parquet)")
	exportCmd.Flags().String("start", "", "First date, YYYY-MM-DD (default: earliest)")
	exportCmd.Flags().String("end", "", "Last date, YYYY-MM-DD (default: latest)")
	exportCmd.Flags().String("column", "", "Threshold column (default $THRESHOLD_COLUMN)")
	exportCmd.Flags().Float64("min", 0, "Minimum value of the threshold column")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.DataSource
	}
	out, _ := cmd.Flags().GetString("out")

	q := readings.Query{Column: cfg.ThresholdColumn}
	for _, name := range []string{"start", "end"} {
		raw, _ := cmd.Flags().GetString(name)
		if raw == "" {
			continue
		}
		d, err := readings.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", name, err)
		}
		if name == "start" {
			q.Start = &d
		} else {
			q.End = &d
		}
	}
	threshold := cmd.Flags().Changed("column") || cmd.Flags().Changed("min")
	if col, _ := cmd.Flags().GetString("column"); col != "" {
		q.Column = col
	}
	if cmd.Flags().Changed("min") {
		min, _ := cmd.Flags().GetFloat64("min")
		q.Min = &min
	}

	table, err := readings.Load(cmd.Context(), readings.FileSource{Path: source}, cfg.LoaderOptions())
	if err != nil {
		return err
	}

	res, err := readings.RunQuery(table, q)
	if err != nil {
		return err
	}
	result := res.Ranged
	if threshold {
		if res.ThresholdErr != nil {
			return res.ThresholdErr
		}
		result = res.Thresholded
	}

	if strings.EqualFold(filepath.Ext(out), ".parquet") {
		err = writeParquetFile(out, result)
	} else {
		err = writeCSVFile(out, result)
	}
	if err != nil {
		return err
	}

	log.Printf("exported %d of %d rows to %s", result.Len(), table.Len(), out)
	if result.IsEmpty() {
		fmt.Fprintln(cmd.OutOrStdout(), "No data matches current filters.")
	}
	return nil
}

func writeParquetFile(path string, table *readings.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := readings.WriteParquet(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/generator"
	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic readings CSV",
	Long:  `Generate hourly synthetic solar station readings with uniformly distributed values.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("out", "", "Output CSV path (default $DATA_SOURCE or src/solar_data.csv)")
	generateCmd.Flags().String("start", "", "First timestamp (default 2023-01-01 00:00)")
	generateCmd.Flags().Int("periods", 0, "Number of rows (default 48)")
	generateCmd.Flags().Duration("interval", time.Hour, "Time between rows")
	generateCmd.Flags().Int64("seed", 0, "Random seed (default: time based)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.DataSource
	}

	opts := generator.Options{Start: cfg.Start, Periods: cfg.Periods}
	if startStr, _ := cmd.Flags().GetString("start"); startStr != "" {
		start, err := readings.ParseTimestamp(startStr)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		opts.Start = start
	}
	if periods, _ := cmd.Flags().GetInt("periods"); periods > 0 {
		opts.Periods = periods
	}
	opts.Interval, _ = cmd.Flags().GetDuration("interval")
	opts.Seed = time.Now().UnixNano()
	if cmd.Flags().Changed("seed") {
		opts.Seed, _ = cmd.Flags().GetInt64("seed")
	}

	table := generator.Generate(opts)
	if err := writeCSVFile(out, table); err != nil {
		return err
	}

	log.Printf("generated %d rows (seed=%d)", table.Len(), opts.Seed)
	fmt.Fprintf(cmd.OutOrStdout(), "Dataset generated and saved as '%s'.\n", out)
	return nil
}

func writeCSVFile(path string, table *readings.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := readings.WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

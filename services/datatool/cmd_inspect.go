package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/solar-insights-dashboard/internal/readings"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print head, column info, null counts and summary statistics",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("source", "", "Readings CSV path (default $DATA_SOURCE)")
	inspectCmd.Flags().Int("head", -1, "Number of rows to preview (default 5)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.DataSource
	}
	head, _ := cmd.Flags().GetInt("head")
	if head < 0 {
		head = cfg.Head
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Loading data...")
	table, err := readings.Load(cmd.Context(), readings.FileSource{Path: source}, cfg.LoaderOptions())
	if err != nil {
		return fmt.Errorf("an error occurred: %w", err)
	}
	log.Printf("loaded %d rows from %s", table.Len(), source)
	fmt.Fprintln(out, "Data loaded successfully!")

	return printInspection(out, table, head)
}

// printInspection writes the report sections in a fixed order: head, info,
// missing values, summary statistics.
func printInspection(w io.Writer, table *readings.Table, head int) error {
	summary := readings.Describe(table)

	fmt.Fprintf(w, "\nFirst %d rows of the data:\n", head)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Columns(), "\t"))
	preview := readings.Head(table, head)
	for i := 0; i < preview.Len(); i++ {
		row := preview.Row(i)
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.Raw
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nInformation about the dataset:\n%d entries, %d columns\n", summary.Rows, len(summary.Columns))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tColumn\tNon-Null Count\tKind")
	for _, col := range summary.Columns {
		fmt.Fprintf(tw, "%d\t%s\t%d non-null\t%s\n", col.Position, col.Name, col.NonNull, col.Kind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nChecking for missing values:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, col := range summary.Columns {
		fmt.Fprintf(tw, "%s\t%d\n", col.Name, col.Nulls)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nSummary statistics:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, st := range summary.Stats {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			st.Column, st.Count,
			formatStat(st.Mean), formatStat(st.Std), formatStat(st.Min),
			formatStat(st.P25), formatStat(st.P50), formatStat(st.P75), formatStat(st.Max))
	}
	return tw.Flush()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}

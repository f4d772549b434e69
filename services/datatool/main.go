package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/solar-insights-dashboard/services/datatool/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "datatool",
	Short: "datatool - solar readings data utilities",
	Long: `datatool generates synthetic solar station readings, inspects readings
files and exports filtered readings as CSV or Parquet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var (
	verbose bool
	flags   jobFlags
)

var rootCmd = &cobra.Command{
	Use:   "fuzzplot",
	Short: "Plot coverage and throughput timelines from fuzzing logs",
	Long: `fuzzplot extracts (elapsed time, metric) samples from fuzzer status logs
and renders comparison charts.

Each command reads one fixed directory layout:
  coverage    <dir>/*_fuzz_log.txt
  table       <dir>/ce_log.txt
  runs        <root>/<run>/fuzz_log.txt (coverage)
  throughput  <root>/<run>/fuzz_log.txt (throughput quantile band)`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&flags.Output, "output", "o", "", "output file (default: next to the logs, extension picks the format)")
	pf.StringVar(&flags.Renderer, "renderer", "", "chart renderer: gonum, gochart or html (default $FUZZPLOT_RENDERER or gonum)")
	pf.StringVar(&flags.Profile, "profile", "", "YAML chart profile (default $FUZZPLOT_PROFILE or the built-in profile)")
	pf.Float64Var(&flags.Hours, "hours", 24, "end of the plotted window in hours (runs, throughput)")
	pf.BoolVar(&flags.Watch, "watch", false, "re-render whenever the logs change")

	throughputCmd.Flags().Float64Var(&flags.BinMinutes, "bin-minutes", 0, "quantile bin width in minutes (default $FUZZPLOT_BIN_MINUTES or 10)")
	coverageCmd.Flags().StringVar(&flags.Source, "source", "log", "input kind: log (*_fuzz_log.txt) or csvstats (*_fuzzstats.csv)")

	rootCmd.AddCommand(coverageCmd, tableCmd, runsCmd, throughputCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

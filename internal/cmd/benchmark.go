package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpequegn/kvbench/internal/bench"
)

var benchmarkWorkers int

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark <duration> <inp-file> <out-file> <host>",
	Short: "Run the concurrent load generator against a KV server",
	Long: `benchmark replays a compressed corpus of patterns against a target server for the
given duration, validating every response against its precomputed prediction and
writing one CSV line per completed pattern in global start-time order.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("parsing duration %q: %w", args[0], err)
		}

		opts := bench.Options{
			Duration:      duration,
			CorpusPath:    args[1],
			ResultPath:    args[2],
			Host:          args[3],
			Workers:       benchmarkWorkers,
			InboxCapacity: bench.DefaultInboxCapacity,
		}
		if viper.IsSet("worker-count-override") && opts.Workers == 0 {
			opts.Workers = viper.GetInt("worker-count-override")
		}

		return bench.Run(cmd.Context(), opts)
	},
}

func init() {
	benchmarkCmd.Flags().IntVar(&benchmarkWorkers, "workers", 0, "override the derived worker count (0 = derive from RLIMIT_NOFILE)")
	rootCmd.AddCommand(benchmarkCmd)
}

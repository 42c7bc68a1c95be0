package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpequegn/kvbench/internal/dispatcher"
	"github.com/jpequegn/kvbench/internal/killswitch"
	"github.com/jpequegn/kvbench/internal/pattern"
	"github.com/jpequegn/kvbench/internal/worker"

	"golang.org/x/sync/semaphore"
)

var (
	testTemplate string
	testRepeat   int
	testKeySize  int
	testValSize  int
)

var testCmd = &cobra.Command{
	Use:   "test <host>",
	Short: "Run a small, human-readable correctness check against a server",
	Long: `test generates a handful of patterns in memory from a template, drives them
through the same dispatcher/worker machinery as benchmark, and prints a
table of per-command outcomes instead of writing a result CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTest(cmd, args[0])
	},
}

func init() {
	testCmd.Flags().StringVar(&testTemplate, "template", "SET-GET-GET-DEL", "pattern template to repeat")
	testCmd.Flags().IntVar(&testRepeat, "repeat", 5, "number of patterns to generate")
	testCmd.Flags().IntVar(&testKeySize, "key-size", 8, "generated key length")
	testCmd.Flags().IntVar(&testValSize, "value-size", 8, "generated value length")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, host string) error {
	tpl, err := pattern.ParsePattern(testTemplate)
	if err != nil {
		return fmt.Errorf("parsing template %q: %w", testTemplate, err)
	}

	rng := rand.New(rand.NewSource(1))
	batch := make([]*pattern.ExecPattern, testRepeat)
	for i := range batch {
		batch[i] = pattern.New(rng, tpl, testKeySize, testValSize)
	}

	sw := killswitch.New()
	activator := semaphore.NewWeighted(1)
	if err := activator.Acquire(cmd.Context(), 1); err != nil {
		return fmt.Errorf("acquiring activator permit: %w", err)
	}

	raw := make(chan *pattern.ExecPattern, len(batch))
	inboxes := []chan<- *pattern.ExecPattern{raw}

	w := worker.New(0, host, raw, sw, activator)
	activator.Release(1)

	dispatcher.RunFinite(batch, inboxes)
	close(raw)

	results, err := w.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("running test patterns: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tCOMMAND\tOUTCOME")
	for _, r := range results {
		for i, c := range r.Pattern.Commands {
			outcome := "ok"
			if !r.Commands[i].OK() {
				outcome = r.Commands[i].Err.Error()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Pattern.TemplateString(), c.Line(), outcome)
		}
	}
	return tw.Flush()
}

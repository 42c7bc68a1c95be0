package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpequegn/kvbench/internal/corpus"
	"github.com/jpequegn/kvbench/internal/pattern"
)

var (
	generateTemplate string
	generateCount    int
	generateKeySize  int
	generateValSize  int
	generateLevel    int
)

var generateCmd = &cobra.Command{
	Use:   "generate <out-file>",
	Short: "Build a compressed corpus file from a pattern template",
	Long: `generate produces the zstd-compressed, length-prefixed binary corpus consumed by
benchmark: it expands a template into the requested number of concrete
patterns, computing each one's predicted responses once at generation time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(args[0])
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateTemplate, "template", "SET-GET-GET-DEL", "pattern template, e.g. SET-GET-GET-DEL")
	generateCmd.Flags().IntVar(&generateCount, "count", 10000, "number of patterns to generate")
	generateCmd.Flags().IntVar(&generateKeySize, "key-size", 8, "generated key length")
	generateCmd.Flags().IntVar(&generateValSize, "value-size", 8, "generated value length")
	generateCmd.Flags().IntVar(&generateLevel, "level", 0, "zstd compression level, 1 (fastest) to 4 (best); 0 selects the default")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(outPath string) error {
	tpl, err := pattern.ParsePattern(generateTemplate)
	if err != nil {
		return fmt.Errorf("parsing template %q: %w", generateTemplate, err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating corpus file: %w", err)
	}
	defer f.Close()

	zw, err := corpus.NewStreamWriter(f, generateLevel)
	if err != nil {
		return fmt.Errorf("opening corpus stream: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < generateCount; i++ {
		p := pattern.New(rng, tpl, generateKeySize, generateValSize)
		if err := corpus.WriteRecord(zw, p); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	return zw.Close()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonia-audio/harmonia/analysis"
	"github.com/harmonia-audio/harmonia/logging"
)

var (
	sampleRate  int
	format      string
	maxDuration float64
	noPreproc   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a raw PCM file (or - for stdin) and print JSON",
	Long: `Reads raw little-endian mono PCM, runs the full analysis pipeline and
prints the result record as JSON on stdout.

Examples:
  harmonia analyze --format s16le --sample-rate 44100 track.pcm
  ffmpeg -i song.flac -f f32le -ac 1 -ar 44100 - | harmonia analyze -`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&sampleRate, "sample-rate", 44100,
		"sample rate of the input in Hz")
	analyzeCmd.Flags().StringVar(&format, "format", formatF32LE,
		"sample format (s16le, f32le, f64le)")
	analyzeCmd.Flags().Float64Var(&maxDuration, "max-duration", 30.0,
		"truncate input to this many seconds (0 = analyze everything)")
	analyzeCmd.Flags().BoolVar(&noPreproc, "no-preprocess", false,
		"skip peak normalization and DC removal")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample-rate must be positive, got %d", sampleRate)
	}

	input := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	samples, err := readPCM(input, format)
	if err != nil {
		return err
	}

	logging.Info("input decoded", logging.Fields{
		"samples":     len(samples),
		"sample_rate": sampleRate,
		"format":      format,
		"duration":    float64(len(samples)) / float64(sampleRate),
	})

	config := analysis.Config{
		Preprocess:     !noPreproc,
		MaxDurationSec: maxDuration,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	result := analysis.NewAnalyzerWithConfig(config).Analyze(samples, sampleRate)

	out, err := result.JSON()
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if !result.Analyzed {
		return fmt.Errorf("analysis did not complete; result contains defaults")
	}
	return nil
}

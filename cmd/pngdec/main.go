// Command pngdec decodes a PNG file and reports its dimensions and any
// errors recorded while decoding it.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/basepixel/pngdec"
)

var (
	inputPath   string
	failFast    bool
	validateCRC bool
	verbose     bool
	debug       bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pngdec",
		Short: "Decode a PNG file into a flat RGBA8 buffer",
		RunE:  runDecode,
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the input PNG file (required)")
	cmd.Flags().BoolVarP(&failFast, "fail-fast", "f", false, "abort on the first recoverable error instead of continuing")
	cmd.Flags().BoolVar(&validateCRC, "validate-crc", true, "validate each chunk's CRC-32")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	cmd.MarkFlagRequired("input")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	switch {
	case debug:
		level = zerolog.DebugLevel
	case verbose:
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	log.Logger = logger

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("pngdec: opening %q: %w", inputPath, err)
	}
	defer f.Close()

	opts := pngdec.Options{
		FailFast:    failFast,
		ValidateCRC: validateCRC,
		Logger:      logger,
	}
	result := pngdec.Decode(f, opts)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "%d decode errors encountered:\n", len(result.Errors))
		for i, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  [%d] %s\n", i, e)
		}
	}
	if result.Err != nil {
		return fmt.Errorf("pngdec: decode failed: %w", result.Err)
	}

	fmt.Printf("decoded %dx%d RGBA image (%d bytes)\n", result.Image.Width, result.Image.Height, len(result.Image.Pix))
	return nil
}

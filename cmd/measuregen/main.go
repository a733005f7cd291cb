// Package main provides the CLI entry point for measuregen.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/comref/measuregen-go/pkg/measuregen"
	"github.com/comref/measuregen-go/pkg/measuregen/models"
	"github.com/comref/measuregen-go/pkg/measuregen/output"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

var (
	hfactor      float64
	timeout      time.Duration
	verovioPath  string
	inkscapePath string
	summaryPath  string
	printJSON    bool
	pretty       bool
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "measuregen [source] [target]",
		Short: "Generate per-measure ground truth images from MusicXML scores",
		Long: `measuregen engraves MusicXML scores with verovio, rasterizes every page with
inkscape and writes one image per part and measure, plus a feedback.json listing
the measures that start a system.

source may be a score file (.mxl, .musicxml, .xml) or a directory of scores.`,
		Args:         cobra.ExactArgs(2),
		RunE:         run,
		SilenceUsage: true,
		Version:      version,
	}

	rootCmd.Flags().Float64Var(&hfactor, "hfactor", 1.0, "Horizontal margin multiplier")
	rootCmd.Flags().DurationVar(&timeout, "timeout", measuregen.DefaultToolTimeout, "Timeout for each verovio or inkscape run")
	rootCmd.Flags().StringVar(&verovioPath, "verovio", "", "Path to the verovio executable (default: from PATH)")
	rootCmd.Flags().StringVar(&inkscapePath, "inkscape", "", "Path to the inkscape executable (default: from PATH)")
	rootCmd.Flags().StringVar(&summaryPath, "summary", "", "Write a run summary workbook (.xlsx)")
	rootCmd.Flags().BoolVar(&printJSON, "json", false, "Print the run result as JSON to stdout")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	sourcePath, targetDir := args[0], args[1]

	sources, err := measuregen.CollectSources(sourcePath)
	if err != nil {
		return fmt.Errorf("source not found: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no scores found in %s", sourcePath)
	}

	opts := measuregen.DefaultOptions(targetDir)
	opts.HFactor = hfactor
	opts.ToolTimeout = timeout
	opts.VerovioPath = verovioPath
	opts.InkscapePath = inkscapePath
	opts.Logger = newLogger(verbose)

	gen, err := measuregen.New(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", targetDir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batch := gen.GenerateBatch(ctx, sources)

	if summaryPath != "" {
		if err := output.WriteSummary(summaryPath, batch); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if printJSON {
		jsonData, err := output.ToJSON(batch, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Println(string(jsonData))
	}

	reportFailures(cmd.ErrOrStderr(), batch)
	if len(batch.Failures) > 0 {
		return fmt.Errorf("%d of %d scores failed", len(batch.Failures), len(sources))
	}
	return nil
}

func newLogger(verbose bool) *log.Logger {
	if !verbose {
		return nil
	}
	return log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
}

func reportFailures(w io.Writer, batch *models.BatchResult) {
	for _, f := range batch.Failures {
		if f.Page != "" {
			fmt.Fprintf(w, "%s: page %s (%s): %s\n", f.Source, f.Page, f.Stage, f.Message)
			continue
		}
		fmt.Fprintf(w, "%s (%s): %s\n", f.Source, f.Stage, f.Message)
	}
}

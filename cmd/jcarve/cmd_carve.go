package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/jcarve/jcarve/carve"
	"github.com/jcarve/jcarve/config"
	"github.com/jcarve/jcarve/format"
	"github.com/jcarve/jcarve/stream"
)

type carveOptions struct {
	input           string
	output          string
	report          string
	minSize         int
	replaceNewlines bool
	fixIncomplete   bool
	reportAll       bool
	unique          bool
	maxDepth        int
	decompress      string
	configPath      string
	verbose         int
}

func newRootCmd() *cobra.Command {
	var o carveOptions

	cmd := &cobra.Command{
		Use:   "jcarve",
		Short: "Carve JSON values out of arbitrary binary streams",
		Long: `jcarve scans a byte stream (memory dump, disk image, log blob) for
substrings that are structurally valid JSON values and extracts them
verbatim. Corrupted or truncated candidates are reported with exact byte
offsets, and truncated ones can be closed at their last safe point.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCarve(cmd, &o)
		},
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "carved-output file (default: stdout)")
	cmd.Flags().StringVarP(&o.report, "report", "r", "", "report file (default: stderr)")
	cmd.Flags().IntVar(&o.minSize, "min-size", 4, "minimum carved span size in bytes")
	cmd.Flags().BoolVar(&o.replaceNewlines, "replace-newlines", false, "replace newlines inside carved spans with spaces")
	cmd.Flags().BoolVar(&o.fixIncomplete, "fix-incomplete", false, "close and emit truncated candidates at their last safe offset")
	cmd.Flags().BoolVar(&o.reportAll, "report-all", false, "report valid attempts too, not only corrupted ones")
	cmd.Flags().BoolVar(&o.unique, "unique", false, "suppress duplicate carved spans")
	cmd.Flags().IntVar(&o.maxDepth, "max-depth", carve.DefaultMaxDepth, "maximum container nesting depth")
	cmd.Flags().StringVarP(&o.decompress, "decompress", "z", stream.CompressNone, "input decompression: none, auto, gzip, zstd, lz4, s2")
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "YAML profile with defaults for the flags above")
	cmd.Flags().CountVarP(&o.verbose, "verbose", "v", "log verbosity (repeatable)")

	return cmd
}

func runCarve(cmd *cobra.Command, o *carveOptions) error {
	commonlog.Configure(o.verbose, nil)

	if o.configPath != "" {
		profile, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		applyProfile(cmd, o, profile)
	}

	in, err := stream.OpenInput(o.input, o.decompress)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := stream.OpenOutput(o.output, os.Stdout)
	if err != nil {
		return err
	}
	rep, err := stream.OpenOutput(o.report, os.Stderr)
	if err != nil {
		out.Close()
		return err
	}

	var spanOpts []format.SpanOption
	spanOpts = append(spanOpts, format.WithMinSize(o.minSize))
	if o.replaceNewlines {
		spanOpts = append(spanOpts, format.WithNewlineCollapse())
	}
	if o.unique {
		spanOpts = append(spanOpts, format.WithDedup())
	}

	opts := []carve.Option{
		carve.WithEmitter(format.NewSpanWriter(out, spanOpts...)),
		carve.WithReporter(loggingReporter{format.NewReportWriter(rep, o.reportAll)}),
		carve.WithMaxDepth(o.maxDepth),
	}
	if o.fixIncomplete {
		opts = append(opts, carve.WithRecovery())
	}

	st, runErr := carve.New(in, opts...).Run()

	if err := out.Close(); runErr == nil && err != nil {
		runErr = fmt.Errorf("write output: %w", err)
	}
	if err := rep.Close(); runErr == nil && err != nil {
		runErr = fmt.Errorf("write report: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	log.Infof("scanned %d bytes: %d candidates, %d valid, %d corrupted, %d recovered",
		st.Bytes, st.Attempts, st.Valid, st.Corrupted, st.Recovered)
	return nil
}

// applyProfile fills in profile values for flags not given on the command
// line. Explicit flags always win.
func applyProfile(cmd *cobra.Command, o *carveOptions, p *config.Profile) {
	flags := cmd.Flags()
	if !flags.Changed("input") && p.Input != "" {
		o.input = p.Input
	}
	if !flags.Changed("output") && p.Output != "" {
		o.output = p.Output
	}
	if !flags.Changed("report") && p.Report != "" {
		o.report = p.Report
	}
	if !flags.Changed("min-size") && p.MinSize != nil {
		o.minSize = *p.MinSize
	}
	if !flags.Changed("replace-newlines") && p.ReplaceNewlines != nil {
		o.replaceNewlines = *p.ReplaceNewlines
	}
	if !flags.Changed("fix-incomplete") && p.FixIncomplete != nil {
		o.fixIncomplete = *p.FixIncomplete
	}
	if !flags.Changed("report-all") && p.ReportAll != nil {
		o.reportAll = *p.ReportAll
	}
	if !flags.Changed("unique") && p.Unique != nil {
		o.unique = *p.Unique
	}
	if !flags.Changed("max-depth") && p.MaxDepth != nil {
		o.maxDepth = *p.MaxDepth
	}
	if !flags.Changed("decompress") && p.Decompress != nil {
		o.decompress = *p.Decompress
	}
}

// loggingReporter traces every attempt at debug before recording it.
type loggingReporter struct {
	next *format.ReportWriter
}

func (r loggingReporter) Report(a carve.Attempt) error {
	log.Debugf("attempt at %d: %s, end %d, last safe %d", a.Start, a.Status, a.End, a.LastSafe)
	return r.next.Report(a)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jcarve/jcarve/carve"
	"github.com/jcarve/jcarve/format"
)

// errInvalidDocument marks a validation failure, whose whole message is the
// report record already on stderr. Any other error is a real fault and gets
// printed before the non-zero exit.
var errInvalidDocument = errors.New("not a valid JSON document")

func newCheckCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate that the input is exactly one JSON document",
		Long: `check reads a whole file (or stdin) and validates it as a single JSON
document with optional surrounding whitespace. Success is silent with exit
status 0. On failure one report record goes to stderr and the exit status
is non-zero; with --fix a successful recovery of the document's valid
prefix is printed to stdout.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			err := runCheck(path, fix, os.Stdout, os.Stderr)
			if err != nil && !errors.Is(err, errInvalidDocument) {
				fmt.Fprintln(os.Stderr, "Error:", err)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "on failure, attempt recovery and print it to stdout")

	return cmd
}

func runCheck(path string, fix bool, stdout, stderr io.Writer) error {
	data, err := readWhole(path)
	if err != nil {
		return err
	}

	att, ok := carve.Document(data)
	if ok {
		return nil
	}

	if err := format.NewReportWriter(stderr, true).Report(att); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if fix {
		if fixed, ok := carve.Recover(data, att); ok {
			if _, err := stdout.Write(append(fixed, '\n')); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	return errInvalidDocument
}

func readWhole(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

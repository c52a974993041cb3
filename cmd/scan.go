// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"hotword-scan/internal/formatters"
	"hotword-scan/internal/inspect"
	"hotword-scan/internal/parallel"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	flags := &inspectFlags{}
	var workers int

	cmd := &cobra.Command{
		Use:   "scan <project> <file>...",
		Short: "Inspect several files concurrently with the same rules",
		Long: `Inspect several files concurrently. Every file gets its own report, printed
in argument order. Unreadable or invalid files are reported on stderr and the
command fails after all other files were inspected.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, flags, workers, args)
		},
	}

	addInspectFlags(cmd, flags)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of files inspected at once (default: number of CPUs)")

	return cmd
}

func runScan(cmd *cobra.Command, flags *inspectFlags, workers int, args []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	parent := projectParent(args[0])
	paths := args[1:]

	observer := newObserver(cmd, cfg, flags)
	inspector, err := newInspector(cmd, cfg, flags, flags.hotword, observer)
	if err != nil {
		return err
	}

	failed := 0
	var jobs []parallel.Job
	for _, path := range paths {
		item, err := readFileItem(cmd, path, flags.contentType)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Skipping %s: %v\n", path, err)
			failed++
			continue
		}
		jobs = append(jobs, parallel.Job{
			JobID:   path,
			Request: inspect.Request{Parent: parent, Item: item},
		})
	}

	ctx, cancel := commandContext(cmd, flags.timeout)
	defer cancel()

	pool := parallel.NewWorkerPool(workers, inspector, observer)
	results, stats := pool.Process(ctx, jobs)

	format := resolveFormat(cfg, flags)
	out := cmd.OutOrStdout()
	options := formatters.FormatterOptions{
		Verbose: flags.verbose,
		NoColor: flags.noColor || cfg.Defaults.NoColor || !isTerminal(out),
	}

	for i, r := range results {
		if r.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Skipping %s: %v\n", r.JobID, r.Error)
			continue
		}
		report, err := formatters.Export(format, r.Result, options)
		if err != nil {
			return err
		}
		if err := writeScanReport(out, format, r.JobID, i, report); err != nil {
			return err
		}
	}

	failed += stats.FailedJobs
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failed, len(paths))
	}
	return nil
}

// writeScanReport separates per-file reports: a "File:" header for text,
// a document separator for YAML, one document per line group for JSON.
func writeScanReport(w io.Writer, format, path string, index int, report string) error {
	var err error
	switch format {
	case "text":
		_, err = fmt.Fprintf(w, "File: %s\n%s", path, report)
	case "yaml":
		if index > 0 {
			if _, err = io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, "# %s\n%s", path, report)
	default:
		_, err = io.WriteString(w, report)
	}
	return err
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hotword-scan/internal/config"
	"hotword-scan/internal/content"
	"hotword-scan/internal/formatters"
	"hotword-scan/internal/hotword"
	"hotword-scan/internal/inspect"
	"hotword-scan/internal/likelihood"
	"hotword-scan/internal/observability"

	"github.com/spf13/cobra"
)

// inspectFlags holds command line flag values
type inspectFlags struct {
	profile       string
	format        string
	output        string
	file          string
	contentType   string
	infoTypes     []string
	hotword       string
	windowBefore  int
	windowAfter   int
	likelihood    string
	relative      int
	minLikelihood string
	combination   string
	maxFindings   int
	noQuote       bool
	timeout       time.Duration
	verbose       bool
	noColor       bool
	debug         bool
}

func newInspectCmd() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect <project> (<string> | --file <path>) [hotword]",
		Short: "Inspect a string or file and apply a custom hotword rule",
		Long: `Inspect a string or file for sensitive info types. When a hotword is given,
findings with the hotword within --window-before characters before them (or
--window-after characters after them) get their likelihood set to
--likelihood, or moved by --relative steps.

The project may be omitted when defaults.project or HOTWORD_PROJECT is set.
Use --file - to read from standard input.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, flags, args)
		},
	}

	addInspectFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "inspect the contents of a file instead of a string")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")

	return cmd
}

// addInspectFlags registers the flags shared by inspect and scan
func addInspectFlags(cmd *cobra.Command, flags *inspectFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.profile, "profile", "", "configuration profile to apply")
	f.StringVar(&flags.format, "format", "", "output format (default from config, text otherwise)")
	f.StringVar(&flags.contentType, "content-type", "", "item type: TEXT_UTF8, PDF or IMAGE (default: from file extension)")
	f.StringSliceVar(&flags.infoTypes, "info-type", nil, "info types to inspect for (default from config, PERSON_NAME otherwise)")
	f.StringVar(&flags.hotword, "hotword", "", "hotword regular expression")
	f.IntVar(&flags.windowBefore, "window-before", 50, "characters before a finding searched for the hotword")
	f.IntVar(&flags.windowAfter, "window-after", 0, "characters after a finding searched for the hotword")
	f.StringVar(&flags.likelihood, "likelihood", likelihood.VeryLikely.String(), "likelihood assigned when the hotword is found")
	f.IntVar(&flags.relative, "relative", 0, "move the likelihood by this many steps instead of fixing it")
	f.StringVar(&flags.minLikelihood, "min-likelihood", "", "minimum likelihood to report (default from config, POSSIBLE otherwise)")
	f.StringVar(&flags.combination, "combination", "", "how several firing rules combine: sequential or strongest")
	f.IntVar(&flags.maxFindings, "max-findings", 0, "maximum number of findings to report, 0 for no limit")
	f.BoolVar(&flags.noQuote, "no-quote", false, "do not include the matched text in the report")
	f.DurationVar(&flags.timeout, "timeout", 0, "abort the inspection after this long, 0 for no limit")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "show spans, original likelihoods and matched hotwords")
	f.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	f.BoolVar(&flags.debug, "debug", false, "log pipeline operations to stderr")
}

func runInspect(cmd *cobra.Command, flags *inspectFlags, args []string) error {
	cfg, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}

	parent, text, hotwordPattern, err := resolveArgs(cfg, flags, args)
	if err != nil {
		return err
	}

	item, err := readItem(cmd, flags, text)
	if err != nil {
		return err
	}

	inspector, err := newInspector(cmd, cfg, flags, hotwordPattern, newObserver(cmd, cfg, flags))
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, flags.timeout)
	defer cancel()

	result, err := inspector.Inspect(ctx, inspect.Request{Parent: parent, Item: item})
	if err != nil {
		return err
	}

	format := resolveFormat(cfg, flags)
	out := cmd.OutOrStdout()
	options := formatters.FormatterOptions{
		Verbose: flags.verbose,
		NoColor: flags.noColor || cfg.Defaults.NoColor || flags.output != "" || !isTerminal(out),
	}

	report, err := formatters.Export(format, result, options)
	if err != nil {
		return err
	}

	if flags.output != "" {
		path := flags.output
		if filepath.Ext(path) == "" {
			path += formatters.GetFormatInfo(format).Extension
		}
		if err := os.WriteFile(path, []byte(report), 0600); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path)
		return nil
	}

	_, err = io.WriteString(out, report)
	return err
}

// resolveArgs maps positional arguments to the project, the string to
// inspect and the hotword.
func resolveArgs(cfg *config.Config, flags *inspectFlags, args []string) (parent, text, hotwordPattern string, err error) {
	project := cfg.Defaults.Project
	rest := args

	needString := flags.file == ""
	switch {
	case needString && len(args) >= 2:
		project, text, rest = args[0], args[1], args[2:]
	case needString && len(args) == 1 && project != "":
		text, rest = args[0], nil
	case needString:
		return "", "", "", fmt.Errorf("requires a project and a string to inspect, or --file")
	case len(args) >= 1:
		project, rest = args[0], args[1:]
	}

	if len(rest) > 1 {
		return "", "", "", fmt.Errorf("unexpected argument %q", rest[1])
	}
	if len(rest) == 1 {
		hotwordPattern = rest[0]
	}
	if flags.hotword != "" {
		hotwordPattern = flags.hotword
	}

	if project == "" {
		return "", "", "", fmt.Errorf("a project is required: pass it as the first argument or set %s", config.EnvProject)
	}

	return projectParent(project), text, hotwordPattern, nil
}

// projectParent turns a bare project id into a parent resource name in the
// global location. Full resource names are kept as given.
func projectParent(project string) string {
	if strings.HasPrefix(project, "projects/") {
		return project
	}
	return "projects/" + project + "/locations/global"
}

// newObserver returns a debug observer writing to stderr when debug logging
// is on, nil otherwise.
func newObserver(cmd *cobra.Command, cfg *config.Config, flags *inspectFlags) *observability.StandardObserver {
	if !flags.debug && !cfg.Defaults.Debug {
		return nil
	}
	return observability.NewDebugObserver(cmd.ErrOrStderr()).StandardObserver
}

// newInspector builds an inspector from the configuration and flags
func newInspector(cmd *cobra.Command, cfg *config.Config, flags *inspectFlags, hotwordPattern string, observer *observability.StandardObserver) (*inspect.Inspector, error) {
	inspectCfg, err := resolveInspectConfig(cmd, cfg, flags, hotwordPattern)
	if err != nil {
		return nil, err
	}

	var opts []inspect.Option
	if observer != nil {
		opts = append(opts, inspect.WithObserver(observer))
	}
	return inspect.New(inspectCfg, opts...)
}

// commandContext returns the command's context, bounded by timeout when set
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func resolveFormat(cfg *config.Config, flags *inspectFlags) string {
	switch {
	case flags.format != "":
		return flags.format
	case cfg.Defaults.Format != "":
		return cfg.Defaults.Format
	default:
		return "text"
	}
}

// readItem builds the content item from --file or the string argument
func readItem(cmd *cobra.Command, flags *inspectFlags, text string) (content.Item, error) {
	if flags.file == "" {
		itemType := content.TextUTF8
		if flags.contentType != "" {
			parsed, err := content.ParseType(flags.contentType)
			if err != nil {
				return content.Item{}, err
			}
			if parsed != content.TextUTF8 {
				return content.Item{}, fmt.Errorf("a string argument can only be inspected as %s", content.TextUTF8)
			}
			itemType = parsed
		}
		return content.Item{Type: itemType, Data: []byte(text)}, nil
	}

	return readFileItem(cmd, flags.file, flags.contentType)
}

// readFileItem reads path ("-" for stdin) as an item. The item type comes
// from contentType, or from the file extension when contentType is empty.
func readFileItem(cmd *cobra.Command, path, contentType string) (content.Item, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return content.Item{}, fmt.Errorf("error reading input: %w", err)
	}

	itemType := content.TypeFromPath(path)
	if contentType != "" {
		if itemType, err = content.ParseType(contentType); err != nil {
			return content.Item{}, err
		}
	}
	return content.Item{Type: itemType, Data: data}, nil
}

// resolveInspectConfig resolves the inspector configuration from the config
// file, the profile and command line flags. Flags win.
func resolveInspectConfig(cmd *cobra.Command, cfg *config.Config, flags *inspectFlags, hotwordPattern string) (inspect.Config, error) {
	inspectCfg, err := cfg.InspectConfig(flags.profile)
	if err != nil {
		return inspect.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("info-type") {
		inspectCfg.InfoTypes = flags.infoTypes
	}
	if flags.minLikelihood != "" {
		if inspectCfg.MinLikelihood, err = likelihood.Parse(flags.minLikelihood); err != nil {
			return inspect.Config{}, fmt.Errorf("invalid --min-likelihood: %w", err)
		}
	}
	if flags.combination != "" {
		if inspectCfg.Combination, err = hotword.ParseCombination(flags.combination); err != nil {
			return inspect.Config{}, err
		}
	}
	if changed("max-findings") {
		inspectCfg.MaxFindings = flags.maxFindings
	}
	if flags.noQuote {
		inspectCfg.IncludeQuote = false
	}

	if hotwordPattern == "" {
		return inspectCfg, nil
	}

	var adjustment hotword.Adjustment
	if changed("relative") {
		adjustment = hotword.Relative{Steps: flags.relative}
	} else {
		level, err := likelihood.Parse(flags.likelihood)
		if err != nil {
			return inspect.Config{}, fmt.Errorf("invalid --likelihood: %w", err)
		}
		adjustment = hotword.Fixed{Level: level}
	}

	rule := hotword.Rule{
		AppliesTo:    append([]string(nil), inspectCfg.InfoTypes...),
		Pattern:      hotwordPattern,
		WindowBefore: flags.windowBefore,
		WindowAfter:  flags.windowAfter,
		Adjustment:   adjustment,
	}
	inspectCfg.RuleSet = append(inspectCfg.RuleSet, rule)
	return inspectCfg, nil
}

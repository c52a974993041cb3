// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"hotword-scan/internal/formatters"
	"hotword-scan/internal/inspect"
	"hotword-scan/internal/likelihood"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colored likelihoods"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *inspect.Result, options formatters.FormatterOptions) (string, error) {
	if len(result.Findings) == 0 {
		return "No findings.\n", nil
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Findings: %d\n\n", len(result.Findings))

	for _, finding := range result.Findings {
		f.appendFinding(&builder, finding, options)
	}

	if result.Truncated {
		builder.WriteString(f.paint("yellow", fmt.Sprintf("Only the first %d findings are shown.", len(result.Findings)), options))
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// appendFinding writes one finding in the InfoType/Quote/Likelihood layout
func (f *Formatter) appendFinding(builder *strings.Builder, finding inspect.Finding, options formatters.FormatterOptions) {
	fmt.Fprintf(builder, "InfoType: %s\n", f.paint("white", finding.InfoType, options))
	if finding.Quote != "" {
		fmt.Fprintf(builder, "\tQuote: %s\n", finding.Quote)
	}
	level := finding.FinalLikelihood
	fmt.Fprintf(builder, "\tLikelihood: %s\n", f.paint(levelColor(level), level.String(), options))

	if options.Verbose {
		if finding.Adjusted() {
			fmt.Fprintf(builder, "\tOriginal likelihood: %s\n", finding.OriginalLikelihood)
			hw := finding.MatchedHotword
			fmt.Fprintf(builder, "\tHotword: %q at %s (rule %d)\n", hw.Text, hw.Span, hw.RuleIndex)
		}
		fmt.Fprintf(builder, "\tLocation: codepoints %s, bytes %s\n", finding.Span, finding.ByteRange)
	}

	builder.WriteString("\n")
}

func (f *Formatter) paint(name, s string, options formatters.FormatterOptions) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

// levelColor returns the color name for a likelihood level
func levelColor(level likelihood.Level) string {
	switch {
	case level >= likelihood.VeryLikely:
		return "red"
	case level == likelihood.Likely:
		return "yellow"
	case level == likelihood.Possible:
		return "cyan"
	default:
		return "green"
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}

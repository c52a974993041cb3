// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"

	"hotword-scan/internal/likelihood"
)

// Span is a half-open interval [Start, End) of code point offsets into the
// inspected text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of code points covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Within reports whether the span is non-empty and fits a text of n code points.
func (s Span) Within(n int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= n
}

// Overlaps reports whether the two spans share at least one code point.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Shift returns the span moved by offset code points.
func (s Span) Shift(offset int) Span {
	return Span{Start: s.Start + offset, End: s.End + offset}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Match represents a raw candidate produced by a CandidateFinder
type Match struct {
	InfoType   string
	Span       Span
	Likelihood likelihood.Level
}

// Hotword records the occurrence that made a rule fire.
type Hotword struct {
	Text      string
	Span      Span // offsets into the inspected text, not into the window
	RuleIndex int
}

// AdjustedFinding is a match after hotword rules were applied to it.
type AdjustedFinding struct {
	InfoType           string
	Span               Span
	OriginalLikelihood likelihood.Level
	FinalLikelihood    likelihood.Level

	// MatchedHotword is nil when no rule fired.
	MatchedHotword *Hotword
}

// Adjusted reports whether any rule changed or confirmed the likelihood.
func (f AdjustedFinding) Adjusted() bool {
	return f.MatchedHotword != nil
}

// CandidateFinder produces raw matches of one info type over a text.
type CandidateFinder interface {
	// InfoType returns the label of the matches this finder produces
	InfoType() string

	// Find returns the candidates in text. Spans are code point offsets.
	Find(text string) []Match
}

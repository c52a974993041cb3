// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package finders provides regex-based candidate finders. They are
// heuristics producing raw matches for the hotword engine; they do not
// attempt entity recognition.
package finders

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"

	"hotword-scan/internal/detector"
	"hotword-scan/internal/likelihood"
)

// Pattern is a compiled candidate pattern with its base likelihood
type Pattern struct {
	Name       string
	Regexp     *regexp.Regexp
	Likelihood likelihood.Level
}

// PatternFinder implements detector.CandidateFinder over a list of patterns.
type PatternFinder struct {
	infoType string
	patterns []Pattern

	// reject drops a candidate text, e.g. label words or invalid numbers
	reject func(candidate string) bool
}

// NewPatternFinder creates a finder for infoType. reject may be nil.
func NewPatternFinder(infoType string, patterns []Pattern, reject func(string) bool) *PatternFinder {
	return &PatternFinder{
		infoType: infoType,
		patterns: patterns,
		reject:   reject,
	}
}

// InfoType implements detector.CandidateFinder
func (f *PatternFinder) InfoType() string {
	return f.infoType
}

// Find implements detector.CandidateFinder. Overlapping candidates are
// resolved in favor of the longer one, then the more likely one.
func (f *PatternFinder) Find(text string) []detector.Match {
	t := detector.NewText(text)

	var candidates []detector.Match
	for _, p := range f.patterns {
		for _, loc := range f.scan(p.Regexp, text) {
			candidates = append(candidates, detector.Match{
				InfoType:   f.infoType,
				Span:       t.SpanFromBytes(loc[0], loc[1]),
				Likelihood: p.Likelihood,
			})
		}
	}

	return deduplicate(candidates)
}

// scan returns accepted byte ranges. After a rejected candidate the search
// restarts one code point later so a shorter candidate inside it can match.
func (f *PatternFinder) scan(re *regexp.Regexp, text string) [][2]int {
	var found [][2]int
	offset := 0
	for offset < len(text) {
		loc := re.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start, end := offset+loc[0], offset+loc[1]
		if start == len(text) {
			break
		}

		candidate := text[start:end]
		if end > start && onBoundary(text, start, end) && (f.reject == nil || !f.reject(candidate)) {
			found = append(found, [2]int{start, end})
			offset = end
			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return found
}

// onBoundary reports whether the candidate is not glued to surrounding
// letters or digits.
func onBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func deduplicate(candidates []detector.Match) []detector.Match {
	if len(candidates) <= 1 {
		return candidates
	}

	ranked := append([]detector.Match(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Span.Len() != b.Span.Len() {
			return a.Span.Len() > b.Span.Len()
		}
		if a.Likelihood != b.Likelihood {
			return a.Likelihood > b.Likelihood
		}
		return a.Span.Start < b.Span.Start
	})

	var kept []detector.Match
	for _, c := range ranked {
		overlaps := false
		for _, k := range kept {
			if c.Span.Overlaps(k.Span) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Span.Start < kept[j].Span.Start
	})
	return kept
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hotword

import (
	"regexp"

	"hotword-scan/internal/detector"
)

// Matcher finds the leftmost occurrence of a hotword in a window. The
// returned span is in code points relative to the window.
type Matcher interface {
	FindFirst(window string) (detector.Span, bool)
}

// TextMatcher is a Matcher that can also scan the whole text. The engine
// prefers it, so anchors and word boundaries see the characters around a
// window rather than its cut edges.
type TextMatcher interface {
	Matcher

	// FindAll returns the non-empty, non-overlapping occurrences in t,
	// leftmost first, as code point spans of t.
	FindAll(t *detector.Text) []detector.Span
}

// RegexpMatcher is a Matcher backed by the standard regexp engine.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// CompileRegexp compiles pattern into a Matcher
func CompileRegexp(pattern string) (*RegexpMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexpMatcher{re: re}, nil
}

// FindFirst implements Matcher. Empty occurrences do not count as a hotword.
func (m *RegexpMatcher) FindFirst(window string) (detector.Span, bool) {
	for _, loc := range m.re.FindAllStringIndex(window, -1) {
		if loc[1] > loc[0] {
			return detector.SpanFromBytesIn(window, loc[0], loc[1]), true
		}
	}
	return detector.Span{}, false
}

// FindAll implements TextMatcher
func (m *RegexpMatcher) FindAll(t *detector.Text) []detector.Span {
	var spans []detector.Span
	for _, loc := range m.re.FindAllStringIndex(t.String(), -1) {
		if loc[1] > loc[0] {
			spans = append(spans, t.SpanFromBytes(loc[0], loc[1]))
		}
	}
	return spans
}

// String returns the source pattern
func (m *RegexpMatcher) String() string {
	return m.re.String()
}

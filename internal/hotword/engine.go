// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package hotword adjusts the likelihood of candidate matches based on
// hotwords found in a proximity window around each match.
package hotword

import (
	"fmt"
	"strings"

	"hotword-scan/internal/detector"
	"hotword-scan/internal/likelihood"
)

// Combination selects how several firing rules on one match are combined.
type Combination int

const (
	// Sequential applies firing rules in input order to the running
	// likelihood. Fixed adjustments override it, relative ones step it.
	Sequential Combination = iota

	// Strongest applies every firing rule to the original likelihood and
	// keeps the highest result.
	Strongest
)

func (c Combination) String() string {
	switch c {
	case Sequential:
		return "sequential"
	case Strongest:
		return "strongest"
	default:
		return fmt.Sprintf("combination(%d)", int(c))
	}
}

// ParseCombination parses "sequential" or "strongest". Empty means Sequential.
func ParseCombination(s string) (Combination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return Sequential, nil
	case "strongest":
		return Strongest, nil
	default:
		return 0, fmt.Errorf("unknown combination policy %q", s)
	}
}

// CompileFunc turns a rule pattern into a Matcher.
type CompileFunc func(pattern string) (Matcher, error)

// Option configures an Engine
type Option func(*Engine)

// WithCombination sets the policy for matches with several firing rules.
func WithCombination(c Combination) Option {
	return func(e *Engine) {
		e.combination = c
	}
}

// WithCompiler replaces the regexp-backed pattern compiler.
func WithCompiler(compile CompileFunc) Option {
	return func(e *Engine) {
		e.compile = compile
	}
}

type compiledRule struct {
	Rule
	index   int
	matcher Matcher
}

// Engine holds a validated rule set. It is immutable after NewEngine returns
// and may be shared between goroutines.
type Engine struct {
	rules       []compiledRule
	combination Combination
	compile     CompileFunc
}

// NewEngine validates and compiles rules. Any malformed rule is reported as
// a *ConfigurationError and no engine is returned.
func NewEngine(rules []Rule, opts ...Option) (*Engine, error) {
	e := &Engine{
		combination: Sequential,
		compile: func(pattern string) (Matcher, error) {
			return CompileRegexp(pattern)
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	switch e.combination {
	case Sequential, Strongest:
	default:
		return nil, NewConfigurationError(-1, "combination", fmt.Sprintf("unsupported policy %s", e.combination), nil)
	}

	e.rules = make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		compiled, err := e.compileRule(i, rule)
		if err != nil {
			return nil, err
		}
		e.rules = append(e.rules, compiled)
	}

	return e, nil
}

func (e *Engine) compileRule(index int, rule Rule) (compiledRule, error) {
	if rule.Pattern == "" {
		return compiledRule{}, NewConfigurationError(index, "pattern", "pattern is required", nil)
	}
	if rule.WindowBefore < 0 {
		return compiledRule{}, NewConfigurationError(index, "window_before", fmt.Sprintf("must not be negative, got %d", rule.WindowBefore), nil)
	}
	if rule.WindowAfter < 0 {
		return compiledRule{}, NewConfigurationError(index, "window_after", fmt.Sprintf("must not be negative, got %d", rule.WindowAfter), nil)
	}

	switch adj := rule.Adjustment.(type) {
	case Fixed:
		if !adj.Level.Valid() {
			return compiledRule{}, NewConfigurationError(index, "likelihood_adjustment", fmt.Sprintf("invalid fixed likelihood %s", adj.Level), nil)
		}
	case Relative:
	case nil:
		return compiledRule{}, NewConfigurationError(index, "likelihood_adjustment", "adjustment is required", nil)
	default:
		return compiledRule{}, NewConfigurationError(index, "likelihood_adjustment", fmt.Sprintf("unsupported adjustment %T", adj), nil)
	}

	matcher, err := e.compile(rule.Pattern)
	if err != nil {
		return compiledRule{}, NewConfigurationError(index, "pattern", fmt.Sprintf("invalid pattern %q", rule.Pattern), err)
	}

	// the caller keeps ownership of its slice
	rule.AppliesTo = append([]string(nil), rule.AppliesTo...)

	return compiledRule{Rule: rule, index: index, matcher: matcher}, nil
}

// RuleCount returns the number of registered rules
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

// Combination returns the configured policy
func (e *Engine) Combination() Combination {
	return e.combination
}

// Adjust applies the rule set to every match and returns one finding per
// match, in input order. If any span does not fit text, an
// *InvalidMatchError is returned and no findings are produced.
func (e *Engine) Adjust(text string, matches []detector.Match) ([]detector.AdjustedFinding, error) {
	t := detector.NewText(text)

	for i, m := range matches {
		if !m.Span.Within(t.Len()) {
			return nil, NewInvalidMatchError(i, m.Span, t.Len())
		}
	}

	scan := newTextScan(t, len(e.rules))
	findings := make([]detector.AdjustedFinding, 0, len(matches))
	for _, m := range matches {
		findings = append(findings, e.adjustMatch(scan, m))
	}
	return findings, nil
}

// textScan caches whole-text occurrences per rule for one Adjust call
type textScan struct {
	t       *detector.Text
	spans   [][]detector.Span
	scanned []bool
}

func newTextScan(t *detector.Text, rules int) *textScan {
	return &textScan{
		t:       t,
		spans:   make([][]detector.Span, rules),
		scanned: make([]bool, rules),
	}
}

func (s *textScan) occurrences(index int, m TextMatcher) []detector.Span {
	if !s.scanned[index] {
		s.spans[index] = m.FindAll(s.t)
		s.scanned[index] = true
	}
	return s.spans[index]
}

func (e *Engine) adjustMatch(scan *textScan, m detector.Match) detector.AdjustedFinding {
	finding := detector.AdjustedFinding{
		InfoType:           m.InfoType,
		Span:               m.Span,
		OriginalLikelihood: m.Likelihood,
		FinalLikelihood:    m.Likelihood,
	}

	running := m.Likelihood
	var best likelihood.Level

	for _, rule := range e.rules {
		if !rule.appliesTo(m.InfoType) {
			continue
		}
		hw, fired := rule.search(scan, m.Span)
		if !fired {
			continue
		}

		switch e.combination {
		case Strongest:
			candidate := rule.Adjustment.Apply(m.Likelihood)
			if finding.MatchedHotword == nil || candidate > best {
				best = candidate
				finding.MatchedHotword = hw
			}
		default:
			running = rule.Adjustment.Apply(running)
			if finding.MatchedHotword == nil {
				finding.MatchedHotword = hw
			}
		}
	}

	if finding.MatchedHotword != nil {
		if e.combination == Strongest {
			finding.FinalLikelihood = best
		} else {
			finding.FinalLikelihood = running
		}
	}

	return finding
}

// search looks for the hotword before the match, then after it. Only an
// occurrence lying entirely inside one window segment fires, so a hotword
// cannot straddle the match.
func (r compiledRule) search(scan *textScan, span detector.Span) (*detector.Hotword, bool) {
	t := scan.t
	windowStart := 0
	if r.WindowBefore < span.Start {
		windowStart = span.Start - r.WindowBefore
	}
	windowEnd := t.Len()
	if r.WindowAfter < t.Len()-span.End {
		windowEnd = span.End + r.WindowAfter
	}

	segments := [2]detector.Span{
		{Start: windowStart, End: span.Start},
		{Start: span.End, End: windowEnd},
	}
	for _, segment := range segments {
		if segment.Len() <= 0 {
			continue
		}
		found, ok := r.find(scan, segment)
		if !ok {
			continue
		}
		return &detector.Hotword{
			Text:      t.Slice(found),
			Span:      found,
			RuleIndex: r.index,
		}, true
	}
	return nil, false
}

// find returns the first occurrence inside segment as an absolute span
func (r compiledRule) find(scan *textScan, segment detector.Span) (detector.Span, bool) {
	if tm, ok := r.matcher.(TextMatcher); ok {
		for _, occ := range scan.occurrences(r.index, tm) {
			if occ.Start >= segment.End {
				break
			}
			if occ.Start >= segment.Start && occ.End <= segment.End {
				return occ, true
			}
		}
		return detector.Span{}, false
	}

	found, ok := r.matcher.FindFirst(scan.t.Slice(segment))
	if !ok || !found.Within(segment.Len()) {
		return detector.Span{}, false
	}
	return found.Shift(segment.Start), true
}

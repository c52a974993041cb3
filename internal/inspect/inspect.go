// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package inspect runs an inspection request end to end: content
// extraction, candidate finding, hotword adjustment and result shaping.
package inspect

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"hotword-scan/internal/content"
	"hotword-scan/internal/detector"
	"hotword-scan/internal/finders"
	"hotword-scan/internal/hotword"
	"hotword-scan/internal/likelihood"
	"hotword-scan/internal/observability"
)

var parentPattern = regexp.MustCompile(`^projects/[^/\s]+(/locations/[^/\s]+)?$`)

// Config controls what an Inspector looks for and what it reports
type Config struct {
	InfoTypes     []string
	RuleSet       []hotword.Rule
	MinLikelihood likelihood.Level
	IncludeQuote  bool
	MaxFindings   int // 0 means unlimited
	Combination   hotword.Combination
}

// DefaultConfig returns the configuration used when nothing is specified
func DefaultConfig() Config {
	return Config{
		InfoTypes:     []string{finders.PersonName},
		MinLikelihood: likelihood.Possible,
		IncludeQuote:  true,
		Combination:   hotword.Sequential,
	}
}

// Request is a single inspection
type Request struct {
	Parent string
	Item   content.Item
}

// Finding is an adjusted match as reported to the caller
type Finding struct {
	detector.AdjustedFinding

	// Quote is empty unless the inspector includes quotes
	Quote string

	// ByteRange holds byte offsets of the match in the extracted text
	ByteRange detector.Span
}

// Result holds the findings of one request, ordered by position
type Result struct {
	Parent      string
	RequestID   string
	ContentType content.Type
	TextLength  int
	Findings    []Finding

	// Truncated is set when MaxFindings dropped findings
	Truncated bool
}

// Option configures an Inspector
type Option func(*Inspector)

// WithRegistry replaces the built-in finder registry
func WithRegistry(registry *finders.Registry) Option {
	return func(i *Inspector) {
		i.registry = registry
	}
}

// WithObserver enables operation logging
func WithObserver(observer *observability.StandardObserver) Option {
	return func(i *Inspector) {
		i.observer = observer
	}
}

// Inspector is safe for concurrent use once created
type Inspector struct {
	config   Config
	registry *finders.Registry
	finders  []detector.CandidateFinder
	engine   *hotword.Engine
	observer *observability.StandardObserver
}

// New validates cfg, resolves its info types and compiles its rule set.
func New(cfg Config, opts ...Option) (*Inspector, error) {
	i := &Inspector{
		config:   cfg,
		registry: finders.NewDefaultRegistry(),
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.config.MinLikelihood == 0 {
		i.config.MinLikelihood = likelihood.Possible
	}
	if !i.config.MinLikelihood.Valid() {
		return nil, NewRequestError("min_likelihood", fmt.Sprintf("invalid likelihood %s", i.config.MinLikelihood), nil)
	}
	if i.config.MaxFindings < 0 {
		return nil, NewRequestError("max_findings", fmt.Sprintf("must not be negative, got %d", i.config.MaxFindings), nil)
	}

	resolved, err := i.registry.Resolve(i.config.InfoTypes)
	if err != nil {
		return nil, NewRequestError("info_types", "cannot resolve info types", err)
	}
	i.finders = resolved

	engine, err := hotword.NewEngine(i.config.RuleSet, hotword.WithCombination(i.config.Combination))
	if err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}
	i.engine = engine

	return i, nil
}

// Config returns the effective configuration
func (i *Inspector) Config() Config {
	return i.config
}

// Inspect runs req. Cancellation of ctx is honored between stages.
func (i *Inspector) Inspect(ctx context.Context, req Request) (*Result, error) {
	requestID := observability.NewRequestID()

	var finishStep func(bool, string)
	if i.observer != nil && i.observer.DebugObserver != nil {
		finishStep = i.observer.DebugObserver.StartStep("inspect", "request", req.Parent)
	}
	done := i.observer.StartTiming("inspect", "request", requestID)

	result, err := i.inspect(ctx, requestID, req)

	metadata := map[string]interface{}{"parent": req.Parent}
	count := 0
	if err != nil {
		metadata["error"] = err.Error()
	} else {
		count = len(result.Findings)
	}
	done(err == nil, count, metadata)
	if finishStep != nil {
		finishStep(err == nil, fmt.Sprintf("%d findings", count))
	}

	return result, err
}

func (i *Inspector) inspect(ctx context.Context, requestID string, req Request) (*Result, error) {
	if !parentPattern.MatchString(req.Parent) {
		return nil, NewRequestError("parent", fmt.Sprintf("malformed parent %q, expected projects/<id> or projects/<id>/locations/<location>", req.Parent), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("inspect canceled: %w", err)
	}

	text, err := content.Extract(req.Item)
	if err != nil {
		return nil, NewRequestError("item", "cannot read content", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("inspect canceled: %w", err)
	}

	var matches []detector.Match
	for _, finder := range i.finders {
		done := i.observer.StartTiming("finder", finder.InfoType(), requestID)
		found := finder.Find(text)
		done(true, len(found), nil)
		matches = append(matches, found...)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("inspect canceled: %w", err)
	}

	done := i.observer.StartTiming("engine", "adjust", requestID)
	adjusted, err := i.engine.Adjust(text, matches)
	done(err == nil, len(adjusted), map[string]interface{}{
		"rules":       i.engine.RuleCount(),
		"combination": i.engine.Combination().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("adjusting likelihoods: %w", err)
	}

	itemType := req.Item.Type
	if itemType == "" {
		itemType = content.TextUTF8
	}
	t := detector.NewText(text)
	result := &Result{
		Parent:      req.Parent,
		RequestID:   requestID,
		ContentType: itemType,
		TextLength:  t.Len(),
		Findings:    i.shape(t, adjusted),
	}
	if i.config.MaxFindings > 0 && len(result.Findings) > i.config.MaxFindings {
		result.Findings = result.Findings[:i.config.MaxFindings]
		result.Truncated = true
	}
	return result, nil
}

// shape filters by minimum likelihood, orders by position and fills quotes
func (i *Inspector) shape(t *detector.Text, adjusted []detector.AdjustedFinding) []Finding {
	findings := make([]Finding, 0, len(adjusted))
	for _, a := range adjusted {
		if likelihood.Compare(a.FinalLikelihood, i.config.MinLikelihood) < 0 {
			continue
		}
		start, end := t.ByteRange(a.Span)
		f := Finding{
			AdjustedFinding: a,
			ByteRange:       detector.Span{Start: start, End: end},
		}
		if i.config.IncludeQuote {
			f.Quote = t.Slice(a.Span)
		}
		findings = append(findings, f)
	}

	sort.SliceStable(findings, func(a, b int) bool {
		sa, sb := findings[a].Span, findings[b].Span
		if sa.Start != sb.Start {
			return sa.Start < sb.Start
		}
		if sa.End != sb.End {
			return sa.End < sb.End
		}
		return findings[a].InfoType < findings[b].InfoType
	})
	return findings
}

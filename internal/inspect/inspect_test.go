// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotword-scan/internal/content"
	"hotword-scan/internal/detector"
	"hotword-scan/internal/finders"
	"hotword-scan/internal/hotword"
	"hotword-scan/internal/likelihood"
	"hotword-scan/internal/observability"
)

func patientRule(windowBefore int) hotword.Rule {
	return hotword.Rule{
		AppliesTo:    []string{finders.PersonName},
		Pattern:      "patient",
		WindowBefore: windowBefore,
		Adjustment:   hotword.Fixed{Level: likelihood.VeryLikely},
	}
}

func newInspector(t *testing.T, cfg Config, opts ...Option) *Inspector {
	t.Helper()
	inspector, err := New(cfg, opts...)
	require.NoError(t, err)
	return inspector
}

func TestInspect_HotwordRaisesPersonName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RuleSet = []hotword.Rule{patientRule(50)}
	inspector := newInspector(t, cfg)

	result, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/my-project",
		Item:   content.NewTextItem("patient name: John Doe"),
	})
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)

	f := result.Findings[0]
	assert.Equal(t, finders.PersonName, f.InfoType)
	assert.Equal(t, "John Doe", f.Quote)
	assert.Equal(t, likelihood.Possible, f.OriginalLikelihood)
	assert.Equal(t, likelihood.VeryLikely, f.FinalLikelihood)
	require.NotNil(t, f.MatchedHotword)
	assert.Equal(t, "patient", f.MatchedHotword.Text)
	assert.Equal(t, detector.Span{Start: 0, End: 7}, f.MatchedHotword.Span)
	assert.Equal(t, content.TextUTF8, result.ContentType)
	assert.Equal(t, 22, result.TextLength)
	assert.NotEmpty(t, result.RequestID)
}

func TestInspect_WindowTooSmall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RuleSet = []hotword.Rule{patientRule(5)}
	inspector := newInspector(t, cfg)

	result, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/my-project",
		Item:   content.NewTextItem("patient name: John Doe"),
	})
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, likelihood.Possible, result.Findings[0].FinalLikelihood)
	assert.Nil(t, result.Findings[0].MatchedHotword)
}

func TestInspect_MinLikelihoodFilters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLikelihood = likelihood.Likely
	inspector := newInspector(t, cfg)

	result, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/p",
		Item:   content.NewTextItem("patient name: John Doe"),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestInspect_OrderAndLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InfoTypes = []string{finders.PersonName, finders.EmailAddress}
	inspector := newInspector(t, cfg)

	text := "jane@example.com John Doe and Mary Jones"
	result, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/p/locations/global",
		Item:   content.NewTextItem(text),
	})
	require.NoError(t, err)
	require.Len(t, result.Findings, 3)
	assert.Equal(t, finders.EmailAddress, result.Findings[0].InfoType)
	assert.Equal(t, "John Doe", result.Findings[1].Quote)
	assert.Equal(t, "Mary Jones", result.Findings[2].Quote)
	assert.False(t, result.Truncated)

	cfg.MaxFindings = 2
	limited := newInspector(t, cfg)
	result, err = limited.Inspect(context.Background(), Request{
		Parent: "projects/p",
		Item:   content.NewTextItem(text),
	})
	require.NoError(t, err)
	require.Len(t, result.Findings, 2)
	assert.True(t, result.Truncated)
	assert.Equal(t, "John Doe", result.Findings[1].Quote)
}

func TestInspect_QuotesOptional(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeQuote = false
	inspector := newInspector(t, cfg)

	result, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/p",
		Item:   content.NewTextItem("né: Zoë Ünal"),
	})
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.Empty(t, result.Findings[0].Quote)
	assert.Equal(t, detector.Span{Start: 4, End: 12}, result.Findings[0].Span)
	assert.Equal(t, detector.Span{Start: 5, End: 15}, result.Findings[0].ByteRange)
}

func TestInspect_RequestErrors(t *testing.T) {
	inspector := newInspector(t, DefaultConfig())

	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{"missing parent", Request{Item: content.NewTextItem("x")}, "parent"},
		{"malformed parent", Request{Parent: "project/p", Item: content.NewTextItem("x")}, "parent"},
		{"extra segments", Request{Parent: "projects/p/zones/a", Item: content.NewTextItem("x")}, "parent"},
		{"unsupported item", Request{Parent: "projects/p", Item: content.Item{Type: "AUDIO", Data: []byte("x")}}, "item"},
		{"invalid utf8", Request{Parent: "projects/p", Item: content.Item{Type: content.TextUTF8, Data: []byte{0xff}}}, "item"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := inspector.Inspect(context.Background(), tc.req)
			assert.Nil(t, result)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr), "expected RequestError, got %v", err)
			assert.Equal(t, tc.field, reqErr.Field)
		})
	}
}

func TestInspect_Canceled(t *testing.T) {
	inspector := newInspector(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := inspector.Inspect(ctx, Request{
		Parent: "projects/p",
		Item:   content.NewTextItem("patient name: John Doe"),
	})
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNew_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InfoTypes = []string{"CREDIT_CARD_NUMBER"}
	_, err := New(cfg)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "info_types", reqErr.Field)
	assert.Contains(t, err.Error(), "Available info types")

	cfg = DefaultConfig()
	cfg.RuleSet = []hotword.Rule{{Pattern: "(", Adjustment: hotword.Relative{Steps: 1}}}
	_, err = New(cfg)
	var cfgErr *hotword.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 0, cfgErr.RuleIndex)
	assert.Equal(t, "pattern", cfgErr.Field)

	cfg = DefaultConfig()
	cfg.MaxFindings = -1
	_, err = New(cfg)
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "max_findings", reqErr.Field)

	cfg = DefaultConfig()
	cfg.MinLikelihood = likelihood.Level(9)
	_, err = New(cfg)
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "min_likelihood", reqErr.Field)
}

func TestNew_DefaultsMinLikelihood(t *testing.T) {
	inspector := newInspector(t, Config{})
	assert.Equal(t, likelihood.Possible, inspector.Config().MinLikelihood)
}

func TestInspect_CustomRegistry(t *testing.T) {
	registry := finders.NewRegistry()
	registry.Register(finders.NewPatternFinder("ACCOUNT", nil, nil))
	cfg := DefaultConfig()
	cfg.InfoTypes = []string{"ACCOUNT"}

	inspector := newInspector(t, cfg, WithRegistry(registry))
	result, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/p",
		Item:   content.NewTextItem("John Doe"),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestInspect_LogsOperations(t *testing.T) {
	var buf bytes.Buffer
	debug := observability.NewDebugObserver(&buf)

	cfg := DefaultConfig()
	cfg.RuleSet = []hotword.Rule{patientRule(50)}
	inspector := newInspector(t, cfg, WithObserver(debug.StandardObserver))

	_, err := inspector.Inspect(context.Background(), Request{
		Parent: "projects/p",
		Item:   content.NewTextItem("patient name: John Doe"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "> inspect: request (projects/p)")
	assert.Contains(t, out, `"component":"engine"`)
	assert.Contains(t, out, `"operation":"PERSON_NAME"`)
	assert.Contains(t, out, "1 findings")
}

func TestInspect_ConcurrentRequests(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RuleSet = []hotword.Rule{patientRule(50)}
	inspector := newInspector(t, cfg)

	errs := make(chan error, 8)
	for n := 0; n < 8; n++ {
		go func() {
			result, err := inspector.Inspect(context.Background(), Request{
				Parent: "projects/p",
				Item:   content.NewTextItem("patient name: John Doe"),
			})
			if err == nil && result.Findings[0].FinalLikelihood != likelihood.VeryLikely {
				err = errors.New("unexpected likelihood")
			}
			errs <- err
		}()
	}
	for n := 0; n < 8; n++ {
		assert.NoError(t, <-errs)
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"hotword-scan/internal/detector"
	"hotword-scan/internal/formatters"
	"hotword-scan/internal/inspect"
	"hotword-scan/internal/likelihood"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Parent      string        `json:"parent" yaml:"parent"`
	RequestID   string        `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	ContentType string        `json:"content_type" yaml:"content_type"`
	Findings    []JSONFinding `json:"findings" yaml:"findings"`
	Truncated   bool          `json:"findings_truncated,omitempty" yaml:"findings_truncated,omitempty"`
}

// JSONFinding represents a single finding in JSON/YAML format
type JSONFinding struct {
	InfoType           string           `json:"info_type" yaml:"info_type"`
	Quote              string           `json:"quote,omitempty" yaml:"quote,omitempty"`
	Likelihood         likelihood.Level `json:"likelihood" yaml:"likelihood"`
	OriginalLikelihood likelihood.Level `json:"original_likelihood,omitempty" yaml:"original_likelihood,omitempty"`
	Location           *JSONLocation    `json:"location,omitempty" yaml:"location,omitempty"`
	MatchedHotword     *JSONHotword     `json:"matched_hotword,omitempty" yaml:"matched_hotword,omitempty"`
}

// JSONLocation locates a finding in the inspected text
type JSONLocation struct {
	CodepointRange detector.Span `json:"codepoint_range" yaml:"codepoint_range"`
	ByteRange      detector.Span `json:"byte_range" yaml:"byte_range"`
}

// JSONHotword describes the hotword that adjusted a finding
type JSONHotword struct {
	Text           string        `json:"text" yaml:"text"`
	RuleIndex      int           `json:"rule_index" yaml:"rule_index"`
	CodepointRange detector.Span `json:"codepoint_range" yaml:"codepoint_range"`
}

// ConvertResultToJSONFormat converts an inspection result to the JSON/YAML
// structure. Locations and hotwords are only included in verbose mode.
func ConvertResultToJSONFormat(result *inspect.Result, options formatters.FormatterOptions) JSONResponse {
	findings := make([]JSONFinding, 0, len(result.Findings))
	for _, f := range result.Findings {
		finding := JSONFinding{
			InfoType:   f.InfoType,
			Quote:      f.Quote,
			Likelihood: f.FinalLikelihood,
		}

		if options.Verbose {
			finding.OriginalLikelihood = f.OriginalLikelihood
			finding.Location = &JSONLocation{
				CodepointRange: f.Span,
				ByteRange:      f.ByteRange,
			}
			if hw := f.MatchedHotword; hw != nil {
				finding.MatchedHotword = &JSONHotword{
					Text:           hw.Text,
					RuleIndex:      hw.RuleIndex,
					CodepointRange: hw.Span,
				}
			}
		}

		findings = append(findings, finding)
	}

	return JSONResponse{
		Parent:      result.Parent,
		RequestID:   result.RequestID,
		ContentType: string(result.ContentType),
		Findings:    findings,
		Truncated:   result.Truncated,
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hotword

import (
	"fmt"

	"hotword-scan/internal/detector"
)

// ConfigurationError reports a malformed rule. It is returned when rules are
// registered, before any match is processed.
type ConfigurationError struct {
	RuleIndex int
	Field     string
	Message   string
	Cause     error
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(ruleIndex int, field, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		RuleIndex: ruleIndex,
		Field:     field,
		Message:   message,
		Cause:     cause,
	}
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	msg := "configuration error:"
	if e.RuleIndex >= 0 {
		msg += fmt.Sprintf(" rule %d", e.RuleIndex)
	}
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// InvalidMatchError reports a match whose span does not fit the text.
type InvalidMatchError struct {
	MatchIndex int
	Span       detector.Span
	TextLength int
}

// NewInvalidMatchError creates a new invalid match error
func NewInvalidMatchError(matchIndex int, span detector.Span, textLength int) *InvalidMatchError {
	return &InvalidMatchError{
		MatchIndex: matchIndex,
		Span:       span,
		TextLength: textLength,
	}
}

// Error implements the error interface
func (e *InvalidMatchError) Error() string {
	return fmt.Sprintf("invalid match %d: span %s outside text of length %d",
		e.MatchIndex, e.Span, e.TextLength)
}

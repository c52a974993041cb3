// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package inspect

import "fmt"

// RequestError reports a malformed request or inspector configuration
type RequestError struct {
	Field   string
	Message string
	Cause   error
}

// NewRequestError creates a new request error
func NewRequestError(field, message string, cause error) *RequestError {
	return &RequestError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

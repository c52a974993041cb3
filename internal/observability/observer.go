// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// StandardObserver records one structured entry per pipeline operation
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	mu            sync.Mutex
	DebugObserver *DebugObserver // set when running in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

var requestCounter atomic.Uint64

// NewStandardObserver creates an observer. A nil writer disables output.
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		level = ObservabilityOff
	}
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// NewRequestID returns an identifier unique within the process
func NewRequestID() string {
	return fmt.Sprintf("req-%s-%d", time.Now().Format("20060102-150405"), requestCounter.Add(1))
}

// Level returns the configured level
func (o *StandardObserver) Level() ObservabilityLevel {
	if o == nil {
		return ObservabilityOff
	}
	return o.level
}

// StartTiming returns a function that logs the operation with its duration
func (o *StandardObserver) StartTiming(component, operation, requestID string) func(success bool, matchCount int, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, matchCount int, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			RequestID:  requestID,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			MatchCount: matchCount,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data. Entries are only written in debug mode.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level != ObservabilityDebug {
		return
	}
	if data.RequestID == "" {
		data.RequestID = NewRequestID()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	_ = json.NewEncoder(o.writer).Encode(data)
}

// StandardObservabilityData is the JSON shape of a log entry
type StandardObservabilityData struct {
	Component     string                 `json:"component"`
	Operation     string                 `json:"operation"`
	RequestID     string                 `json:"request_id"`
	Parent        string                 `json:"parent,omitempty"`
	DurationMs    int64                  `json:"duration_ms"`
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	ContentLength int                    `json:"content_length,omitempty"`
	MatchCount    int                    `json:"match_count,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

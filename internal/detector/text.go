// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "unicode/utf8"

// Text indexes a string by code point so spans can be sliced without
// re-decoding the whole string each time.
type Text struct {
	s       string
	offsets []int // byte offset of each code point, plus len(s)
}

// NewText builds the code point index for s.
func NewText(s string) *Text {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return &Text{s: s, offsets: offsets}
}

// String returns the underlying text
func (t *Text) String() string {
	return t.s
}

// Len returns the number of code points.
func (t *Text) Len() int {
	return len(t.offsets) - 1
}

// Slice returns the substring covered by span. The span must be within bounds.
func (t *Text) Slice(span Span) string {
	return t.s[t.offsets[span.Start]:t.offsets[span.End]]
}

// ByteRange converts a code point span into byte offsets.
func (t *Text) ByteRange(span Span) (int, int) {
	return t.offsets[span.Start], t.offsets[span.End]
}

// SpanFromBytes converts byte offsets produced by a byte-oriented matcher
// over the whole text into a code point span.
func (t *Text) SpanFromBytes(start, end int) Span {
	return Span{Start: t.codePointAt(start), End: t.codePointAt(end)}
}

func (t *Text) codePointAt(byteOffset int) int {
	lo, hi := 0, len(t.offsets)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if t.offsets[mid] < byteOffset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// SpanFromBytesIn converts byte offsets inside s into a code point span of s.
func SpanFromBytesIn(s string, start, end int) Span {
	return Span{
		Start: utf8.RuneCountInString(s[:start]),
		End:   utf8.RuneCountInString(s[:end]),
	}
}

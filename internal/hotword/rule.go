// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hotword

import (
	"fmt"

	"hotword-scan/internal/likelihood"
)

// Rule raises or lowers the likelihood of matches that have a hotword
// within a proximity window.
type Rule struct {
	// AppliesTo lists the info types the rule is scoped to. Empty means all.
	AppliesTo []string

	// Pattern is a case-sensitive regular expression. It is matched against
	// the whole text, so anchors and \b see the real neighbours of a
	// window. An occurrence fires only when it lies entirely inside the
	// window; one reaching into the match or past the window edge does not.
	Pattern string

	// WindowBefore and WindowAfter are code point counts around the match.
	WindowBefore int
	WindowAfter  int

	Adjustment Adjustment
}

// appliesTo reports whether the rule is scoped to infoType
func (r Rule) appliesTo(infoType string) bool {
	if len(r.AppliesTo) == 0 {
		return true
	}
	for _, t := range r.AppliesTo {
		if t == infoType {
			return true
		}
	}
	return false
}

// Adjustment is either a Fixed level or a Relative step count.
type Adjustment interface {
	// Apply returns the level after the adjustment. The result is always
	// inside the lattice.
	Apply(current likelihood.Level) likelihood.Level

	fmt.Stringer
	adjustment()
}

// Fixed sets the likelihood outright.
type Fixed struct {
	Level likelihood.Level
}

// Apply implements Adjustment
func (f Fixed) Apply(likelihood.Level) likelihood.Level {
	return likelihood.Clamp(int(f.Level))
}

func (f Fixed) String() string {
	return "fixed " + f.Level.String()
}

func (Fixed) adjustment() {}

// Relative moves the likelihood by Steps positions, saturating at the ends.
type Relative struct {
	Steps int
}

// Apply implements Adjustment
func (r Relative) Apply(current likelihood.Level) likelihood.Level {
	return likelihood.Step(current, r.Steps)
}

func (r Relative) String() string {
	return fmt.Sprintf("relative %+d", r.Steps)
}

func (Relative) adjustment() {}

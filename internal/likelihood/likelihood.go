// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package likelihood defines the ordered scale of confidence levels assigned
// to a finding and saturating arithmetic over it.
package likelihood

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a discrete confidence grade. The zero value is not a valid level.
type Level int

const (
	VeryUnlikely Level = iota + 1
	Unlikely
	Possible
	Likely
	VeryLikely
)

// Lowest and Highest bound the lattice.
const (
	Lowest  = VeryUnlikely
	Highest = VeryLikely
)

var levelNames = map[Level]string{
	VeryUnlikely: "VERY_UNLIKELY",
	Unlikely:     "UNLIKELY",
	Possible:     "POSSIBLE",
	Likely:       "LIKELY",
	VeryLikely:   "VERY_LIKELY",
}

// All returns every level in ascending order.
func All() []Level {
	return []Level{VeryUnlikely, Unlikely, Possible, Likely, VeryLikely}
}

// String returns the upper-case name of the level
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LIKELIHOOD(%d)", int(l))
}

// Valid reports whether l is one of the five named levels.
func (l Level) Valid() bool {
	return l >= Lowest && l <= Highest
}

// Parse accepts a level name (case-insensitive, '-' or ' ' allowed in place
// of '_') or its numeric form 1..5.
func Parse(s string) (Level, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if normalized == "" {
		return 0, fmt.Errorf("empty likelihood")
	}

	for level, name := range levelNames {
		if name == normalized {
			return level, nil
		}
	}

	if n, err := strconv.Atoi(normalized); err == nil {
		if level := Level(n); level.Valid() {
			return level, nil
		}
	}

	return 0, fmt.Errorf("unknown likelihood %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid likelihood %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	level, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// Clamp saturates an arbitrary ordinal into the lattice.
func Clamp(ordinal int) Level {
	switch {
	case ordinal < int(Lowest):
		return Lowest
	case ordinal > int(Highest):
		return Highest
	default:
		return Level(ordinal)
	}
}

// Step moves delta positions along the scale and clamps to the ends. It
// never fails: an invalid starting level is clamped first.
func Step(l Level, delta int) Level {
	start := int(Clamp(int(l)))

	// keep the sum in range for extreme deltas
	switch {
	case delta > int(Highest):
		delta = int(Highest)
	case delta < -int(Highest):
		delta = -int(Highest)
	}
	return Clamp(start + delta)
}

// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
func Compare(a, b Level) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Max returns the strongest level. With no arguments it returns Lowest.
func Max(levels ...Level) Level {
	result := Lowest
	for _, l := range levels {
		if c := Clamp(int(l)); c > result {
			result = c
		}
	}
	return result
}

// Min returns the weakest level. With no arguments it returns Highest.
func Min(levels ...Level) Level {
	result := Highest
	for _, l := range levels {
		if c := Clamp(int(l)); c < result {
			result = c
		}
	}
	return result
}

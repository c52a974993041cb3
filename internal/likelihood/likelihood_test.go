// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package likelihood

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStep(t *testing.T) {
	cases := []struct {
		name  string
		start Level
		delta int
		want  Level
	}{
		{"zero delta", Possible, 0, Possible},
		{"one up", Possible, 1, Likely},
		{"two up", Possible, 2, VeryLikely},
		{"saturates at top", Likely, 3, VeryLikely},
		{"one down", Possible, -1, Unlikely},
		{"saturates at bottom", Unlikely, -4, VeryUnlikely},
		{"max int", VeryUnlikely, math.MaxInt, VeryLikely},
		{"min int", VeryLikely, math.MinInt, VeryUnlikely},
		{"invalid start clamped", Level(42), -1, Likely},
		{"zero start clamped", Level(0), 0, VeryUnlikely},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Step(tc.start, tc.delta)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestStepAlwaysInRange(t *testing.T) {
	for _, start := range All() {
		for delta := -20; delta <= 20; delta++ {
			if got := Step(start, delta); !got.Valid() {
				t.Fatalf("Step(%v, %d) = %v, outside lattice", start, delta, got)
			}
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Level{
		"VERY_LIKELY":   VeryLikely,
		"very_likely":   VeryLikely,
		"very-unlikely": VeryUnlikely,
		" possible ":    Possible,
		"4":             Likely,
		"1":             VeryUnlikely,
	}
	for input, want := range cases {
		got, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "maybe", "0", "6", "LIKELIHOOD_UNSPECIFIED"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, VeryLikely, Max(Unlikely, VeryLikely, Possible))
	assert.Equal(t, Unlikely, Min(Unlikely, VeryLikely, Possible))
	assert.Equal(t, Lowest, Max())
	assert.Equal(t, Highest, Min())
	assert.Equal(t, VeryLikely, Max(Level(99)))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Unlikely, Likely))
	assert.Equal(t, 0, Compare(Likely, Likely))
	assert.Equal(t, 1, Compare(VeryLikely, Likely))
}

func TestTextRoundTripThroughYAML(t *testing.T) {
	var doc struct {
		Level Level `yaml:"level"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("level: likely\n"), &doc))
	assert.Equal(t, Likely, doc.Level)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "level: LIKELY\n", string(out))

	_, err = Level(0).MarshalText()
	assert.Error(t, err)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package finders

import (
	"regexp"
	"strings"

	"hotword-scan/internal/likelihood"
)

const (
	EmailAddress           = "EMAIL_ADDRESS"
	PhoneNumber            = "PHONE_NUMBER"
	USSocialSecurityNumber = "US_SOCIAL_SECURITY_NUMBER"
)

// NewEmailFinder returns the EMAIL_ADDRESS finder
func NewEmailFinder() *PatternFinder {
	return NewPatternFinder(EmailAddress, []Pattern{
		{
			Name:       "email",
			Regexp:     regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
			Likelihood: likelihood.Likely,
		},
	}, nil)
}

// NewPhoneFinder returns the PHONE_NUMBER finder for North American formats
func NewPhoneFinder() *PatternFinder {
	return NewPatternFinder(PhoneNumber, []Pattern{
		{
			Name:       "parenthesized_area_code",
			Regexp:     regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.\s]?\d{4}`),
			Likelihood: likelihood.Likely,
		},
		{
			Name:       "separated",
			Regexp:     regexp.MustCompile(`\d{3}[-.]\d{3}[-.]\d{4}`),
			Likelihood: likelihood.Possible,
		},
		{
			Name:       "international_us",
			Regexp:     regexp.MustCompile(`\+1[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
			Likelihood: likelihood.Likely,
		},
	}, nil)
}

// NewSSNFinder returns the US_SOCIAL_SECURITY_NUMBER finder. Numbers that
// can never be issued are rejected.
func NewSSNFinder() *PatternFinder {
	return NewPatternFinder(USSocialSecurityNumber, []Pattern{
		{
			Name:       "dashed",
			Regexp:     regexp.MustCompile(`\d{3}-\d{2}-\d{4}`),
			Likelihood: likelihood.Likely,
		},
		{
			Name:       "spaced",
			Regexp:     regexp.MustCompile(`\d{3} \d{2} \d{4}`),
			Likelihood: likelihood.Possible,
		},
	}, isUnissuedSSN)
}

func isUnissuedSSN(candidate string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, candidate)
	if len(digits) != 9 {
		return true
	}

	area, group, serial := digits[:3], digits[3:5], digits[5:]
	return area == "000" || area == "666" || area[0] == '9' ||
		group == "00" || serial == "0000"
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package finders

import (
	"regexp"
	"strings"
	"unicode"

	"hotword-scan/internal/likelihood"
)

const PersonName = "PERSON_NAME"

// Capitalized words that label or qualify a name rather than being one.
var nonNameWords = map[string]bool{
	// labels
	"name": true, "names": true, "patient": true, "customer": true, "employee": true,
	"contact": true, "client": true, "user": true, "member": true, "staff": true,
	"doctor": true, "nurse": true, "manager": true, "director": true, "author": true,
	"owner": true, "student": true, "teacher": true, "first": true, "last": true,
	"full": true, "middle": true, "date": true, "birth": true, "account": true,
	"card": true, "number": true, "phone": true, "email": true, "address": true,
	"social": true, "security": true, "dear": true, "hello": true, "regards": true,
	"thanks": true, "the": true, "and": true, "for": true, "with": true, "from": true,
	// organisations and places
	"company": true, "organization": true, "business": true, "product": true,
	"service": true, "system": true, "software": true, "corporation": true,
	"inc": true, "llc": true, "ltd": true, "corp": true, "group": true,
	"associates": true, "partners": true, "holdings": true, "university": true,
	"hospital": true, "clinic": true, "city": true, "county": true, "state": true,
	"country": true, "street": true, "avenue": true, "road": true, "drive": true,
	"park": true, "lake": true, "river": true, "mountain": true,
	// calendar
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true, "january": true,
	"february": true, "march": true, "april": true, "june": true, "july": true,
	"august": true, "september": true, "october": true, "november": true,
	"december": true,
}

var titles = map[string]bool{"mr": true, "ms": true, "mrs": true, "dr": true, "prof": true}

// NewPersonNameFinder returns the PERSON_NAME finder. Plain capitalized
// pairs are POSSIBLE, names introduced by a title are LIKELY.
func NewPersonNameFinder() *PatternFinder {
	const word = `\p{Lu}\p{Ll}{1,29}`
	patterns := []Pattern{
		{
			Name:       "first_last",
			Regexp:     regexp.MustCompile(word + `\s+` + word),
			Likelihood: likelihood.Possible,
		},
		{
			Name:       "first_initial_last",
			Regexp:     regexp.MustCompile(word + `\s+\p{Lu}\.\s+` + word),
			Likelihood: likelihood.Possible,
		},
		{
			Name:       "hyphenated_last",
			Regexp:     regexp.MustCompile(word + `\s+` + word + `-` + word),
			Likelihood: likelihood.Possible,
		},
		{
			Name:       "title_name",
			Regexp:     regexp.MustCompile(`(?:Mr|Ms|Mrs|Dr|Prof)\.\s+` + word + `(?:\s+` + word + `)?`),
			Likelihood: likelihood.Likely,
		},
	}
	return NewPatternFinder(PersonName, patterns, isNonName)
}

func isNonName(candidate string) bool {
	words := strings.FieldsFunc(candidate, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '-'
	})
	for _, w := range words {
		lower := strings.ToLower(w)
		if titles[lower] {
			continue
		}
		if nonNameWords[lower] {
			return true
		}
	}
	return false
}

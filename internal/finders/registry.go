// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package finders

import (
	"fmt"
	"sort"
	"strings"

	"hotword-scan/internal/detector"
)

// Registry holds candidate finders keyed by info type
type Registry struct {
	finders map[string]detector.CandidateFinder
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		finders: make(map[string]detector.CandidateFinder),
	}
}

// NewDefaultRegistry creates a registry with every built-in finder
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPersonNameFinder())
	r.Register(NewEmailFinder())
	r.Register(NewPhoneFinder())
	r.Register(NewSSNFinder())
	return r
}

// Register adds a finder, replacing any finder for the same info type
func (r *Registry) Register(finder detector.CandidateFinder) {
	r.finders[finder.InfoType()] = finder
}

// Get retrieves a finder by info type
func (r *Registry) Get(infoType string) (detector.CandidateFinder, bool) {
	finder, exists := r.finders[infoType]
	return finder, exists
}

// List returns the registered info types in sorted order
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.finders))
	for name := range r.finders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the finders for the requested info types in request
// order, skipping duplicates. An empty request resolves to every finder.
func (r *Registry) Resolve(infoTypes []string) ([]detector.CandidateFinder, error) {
	if len(infoTypes) == 0 {
		infoTypes = r.List()
	}

	seen := make(map[string]bool, len(infoTypes))
	resolved := make([]detector.CandidateFinder, 0, len(infoTypes))
	for _, name := range infoTypes {
		name = strings.TrimSpace(name)
		if seen[name] {
			continue
		}
		seen[name] = true

		finder, ok := r.finders[name]
		if !ok {
			return nil, fmt.Errorf("unknown info type %q. Available info types: %s", name, strings.Join(r.List(), ", "))
		}
		resolved = append(resolved, finder)
	}
	return resolved, nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package content

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifWalker collects printable tag values
type exifWalker struct {
	tags map[string]string
}

// Walk implements exif.Walker
func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	value := tag.String()
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			value = s
		}
	}
	value = strings.TrimSpace(strings.Trim(value, "\x00"))
	if value != "" && isPrintable(value) {
		w.tags[string(name)] = value
	}
	return nil
}

// extractImageMetadata renders the EXIF tags of an image as "Tag: value"
// lines sorted by tag name, so hotwords such as "Artist" sit right before
// the value they describe.
func extractImageMetadata(data []byte) (string, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("no EXIF data found: %w", err)
	}

	walker := &exifWalker{tags: make(map[string]string)}
	if err := x.Walk(walker); err != nil {
		return "", fmt.Errorf("error reading EXIF tags: %w", err)
	}

	names := make([]string, 0, len(walker.tags))
	for name := range walker.tags {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf strings.Builder
	for _, name := range names {
		fmt.Fprintf(&buf, "%s: %s\n", name, walker.tags[name])
	}
	return buf.String(), nil
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\t' {
			return false
		}
	}
	return true
}

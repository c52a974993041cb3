// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package content turns inspectable items into text.
package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Type identifies how the bytes of an Item are interpreted
type Type string

const (
	TextUTF8 Type = "TEXT_UTF8"
	PDF      Type = "PDF"
	Image    Type = "IMAGE"
)

// ParseType accepts the canonical names case-insensitively. "TEXT" is an
// alias for TEXT_UTF8.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TEXT_UTF8", "TEXT":
		return TextUTF8, nil
	case "PDF":
		return PDF, nil
	case "IMAGE":
		return Image, nil
	default:
		return "", fmt.Errorf("unsupported content type %q", s)
	}
}

// Item is a unit of content to inspect
type Item struct {
	Type Type
	Data []byte
}

// NewTextItem wraps a string as a TEXT_UTF8 item
func NewTextItem(s string) Item {
	return Item{Type: TextUTF8, Data: []byte(s)}
}

// TypeFromPath infers the item type from a file extension. Unknown
// extensions are treated as text.
func TypeFromPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF
	case ".jpg", ".jpeg", ".tif", ".tiff":
		return Image
	default:
		return TextUTF8
	}
}

// Extract returns the text to inspect for item.
func Extract(item Item) (string, error) {
	switch item.Type {
	case TextUTF8, "":
		if !utf8.Valid(item.Data) {
			return "", fmt.Errorf("text item is not valid UTF-8")
		}
		return string(item.Data), nil
	case PDF:
		return extractPDFText(item.Data)
	case Image:
		return extractImageMetadata(item.Data)
	default:
		return "", fmt.Errorf("unsupported content type %q", item.Type)
	}
}

package model

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// ErrInvalidTag is returned when a tag name is empty after normalization.
var ErrInvalidTag = errors.New("invalid tag name")

// Tag associates a user-assigned label with a page URL.
// The compound key [name+url] makes the association unique; the same name
// can label many pages and a page can carry many names.
type Tag struct {
	// Name is the normalized tag name.
	Name string `json:"name"`

	// URL is the canonicalized URL of the tagged page.
	URL string `json:"url"`
}

// tagFolder performs Unicode case folding for tag names.
// Folding (rather than simple lowercasing) makes names like "Straße" and
// "STRASSE" compare equal, which keeps the tag suggestion list free of
// case-variant duplicates.
var tagFolder = cases.Fold()

// NormalizeTagName canonicalizes a tag name: surrounding whitespace is
// trimmed, internal whitespace collapses to single spaces, and the result
// is Unicode case folded. Returns ErrInvalidTag for names that are empty
// after normalization.
func NormalizeTagName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", ErrInvalidTag
	}
	return tagFolder.String(name), nil
}

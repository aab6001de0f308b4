// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slug turns display names into identifiers matching ^[-a-zA-Z0-9_]+$.

Accented letters are folded to their ASCII base ("Café" becomes "cafe"). Any
other rune outside the alphabet becomes a hyphen, and hyphen runs collapse.
*/
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold strips combining marks after canonical decomposition.
var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From returns the lowercase slug for value, or "" when nothing survives.
func From(value string) string {
	folded, _, err := transform.String(fold, value)
	if err != nil {
		folded = value
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if allowed(r) && r != '-' {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}

// allowed reports whether r may appear in a slug.
func allowed(r rune) bool {
	return r == '-' || r == '_' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings, plus uniqueness enforcement against a collection.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s_-]`)
	// separators collapses runs of whitespace and underscores into one hyphen.
	separators = regexp.MustCompile(`[\s_]+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Unique returns base if no live entity already holds it, otherwise the
// first free "-2", "-3", ... suffixed variant. taken reports whether a
// candidate slug is already in use. If taken itself fails (the uniqueness
// check could not consult storage), the fallback suffix is appended
// instead — sacrificing readability for guaranteed uniqueness, since the
// fallback carries the entity's own ULID.
func Unique(base, fallback string, taken func(string) (bool, error)) string {
	if base == "" {
		base = "untitled"
	}

	inUse, err := taken(base)
	if err != nil {
		return base + "-" + strings.ToLower(fallback)
	}
	if !inUse {
		return base
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		inUse, err := taken(candidate)
		if err != nil {
			return base + "-" + strings.ToLower(fallback)
		}
		if !inUse {
			return candidate
		}
	}
}

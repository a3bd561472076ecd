// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package pagination slices ordered sequences into fixed-size pages.
package pagination

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultPageSize is the number of items per page served by the flights API.
const DefaultPageSize = 15

// Paginate returns items[(page-1)*size : page*size], clipped to the slice
// bounds. Pages below 1 are treated as page 1. A page past the end yields an
// empty, non-nil slice so that it encodes as [] rather than null.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return []T{}
	}

	if page-1 >= TotalPages(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}

// TotalPages returns ceil(total/size). Zero items yield zero pages.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

// ParsePage reads a page number from a query value. Leading whitespace and
// an optional sign are accepted, followed by the longest run of decimal
// digits; anything after the digits is ignored ("3abc" is page 3).
// Missing, non-numeric, or non-positive values resolve to page 1.
func ParsePage(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		// Overflowing values are not addressable pages either.
		return 1
	}
	return n
}

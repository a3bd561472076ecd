// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

// Package birthdate parses Spanish free-text birth dates such as
// "15 de marzo de 1990" and converts them into ages in completed years.
//
// Parsing never panics: any input that does not match the expected pattern,
// names an unknown month, or describes an impossible calendar date (for
// example "31 de febrero de 2001") yields ok == false.
package birthdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var datePattern = regexp.MustCompile(`(\d+) de (\S+) de (\d+)`)

// spanishMonths maps lower-case Spanish month names to calendar months.
var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// Parse extracts the calendar date from text. The returned time is midnight
// UTC of the birth date.
func Parse(text string) (time.Time, bool) {
	parts := datePattern.FindStringSubmatch(text)
	if parts == nil {
		return time.Time{}, false
	}

	month, ok := spanishMonths[strings.ToLower(parts[2])]
	if !ok {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[3])
	if err != nil {
		return time.Time{}, false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 31 -> Mar 3); reject those.
	if date.Day() != day || date.Month() != month || date.Year() != year {
		return time.Time{}, false
	}
	return date, true
}

// Calculator computes ages relative to a clock. The zero value uses time.Now.
type Calculator struct {
	Now func() time.Time
}

// NewCalculator returns a Calculator bound to the given clock.
// A nil clock falls back to time.Now.
func NewCalculator(now func() time.Time) *Calculator {
	return &Calculator{Now: now}
}

// Age returns the age in completed years for a Spanish birth date string.
func (c *Calculator) Age(text string) (int, bool) {
	birth, ok := Parse(text)
	if !ok {
		return 0, false
	}
	now := time.Now
	if c != nil && c.Now != nil {
		now = c.Now
	}
	return YearsBetween(birth, now()), true
}

// YearsBetween returns the number of completed years from birth to today.
// The result is decremented when today's month/day precedes the birthday.
func YearsBetween(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

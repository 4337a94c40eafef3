// Package fiscalyear converts Nepali fiscal-year strings between the
// Bikram Sambat (BS) and Gregorian (AD) calendars. A fiscal year is written
// as "YYYY/YY" (or "YYYY/YYYY"), e.g. BS "2078/79" which is AD "2021/22".
// The two calendars differ by a fixed 57-year offset.
package fiscalyear

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// YearOffset is the fixed difference between BS and AD years.
const YearOffset = 57

// Valid start-year ranges used to detect which calendar an input belongs to.
const (
	adMinStart = 2000
	adMaxStart = 2029
	bsMinStart = adMinStart + YearOffset
	bsMaxStart = adMaxStart + YearOffset
)

// Calendar identifies the calendar system of a fiscal-year string.
type Calendar string

// Calendar constants for the two supported systems.
const (
	CalendarBS Calendar = "BS" // Bikram Sambat (Nepali)
	CalendarAD Calendar = "AD" // Gregorian (English)
)

// MalformedError indicates a fiscal-year string that does not parse, or whose
// boundary years are not consecutive (e.g. "2078/80").
type MalformedError struct {
	Input string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed fiscal year %q: want consecutive years like 2078/79", e.Input)
}

// UnknownCalendarError indicates a start year outside both calendar ranges.
type UnknownCalendarError struct {
	Input string
	Start int
}

func (e *UnknownCalendarError) Error() string {
	return fmt.Sprintf("fiscal year %q: start year %d is in neither the BS (%d-%d) nor AD (%d-%d) range",
		e.Input, e.Start, bsMinStart, bsMaxStart, adMinStart, adMaxStart)
}

// Pair holds both representations of one fiscal year.
type Pair struct {
	BS    string   // Bikram Sambat representation, e.g. "2078/79"
	AD    string   // Gregorian representation, e.g. "2021/22"
	Input Calendar // which calendar the original input was written in
}

// Variants returns the representations in database lookup order: BS first,
// then AD, matching the order reports are labelled on bank websites.
func (p Pair) Variants() []string {
	return []string{p.BS, p.AD}
}

// Matches reports whether s equals either representation.
func (p Pair) Matches(s string) bool {
	s = strings.TrimSpace(s)
	return s == p.BS || s == p.AD
}

var fiscalYearPattern = regexp.MustCompile(`^(\d{4})/(\d{2}|\d{4})$`)

// Normalize parses a fiscal-year string in either calendar and returns both
// representations. The digit width of the second component (2 or 4) is
// preserved in the converted counterpart, so Normalize round-trips exactly.
func Normalize(input string) (Pair, error) {
	trimmed := strings.TrimSpace(input)

	m := fiscalYearPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Pair{}, &MalformedError{Input: input}
	}

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Pair{}, &MalformedError{Input: input}
	}
	end, err := strconv.Atoi(m[2])
	if err != nil {
		return Pair{}, &MalformedError{Input: input}
	}

	// The second component must be the continuation of the first.
	wide := len(m[2]) == 4
	if wide {
		if end != start+1 {
			return Pair{}, &MalformedError{Input: input}
		}
	} else if end != (start+1)%100 {
		return Pair{}, &MalformedError{Input: input}
	}

	switch {
	case start >= adMinStart && start <= adMaxStart:
		return Pair{BS: format(start+YearOffset, wide), AD: trimmed, Input: CalendarAD}, nil
	case start >= bsMinStart && start <= bsMaxStart:
		return Pair{BS: trimmed, AD: format(start-YearOffset, wide), Input: CalendarBS}, nil
	default:
		return Pair{}, &UnknownCalendarError{Input: input, Start: start}
	}
}

// format renders a fiscal year from its start year, matching the input's
// second-component width.
func format(start int, wide bool) string {
	if wide {
		return fmt.Sprintf("%04d/%04d", start, start+1)
	}
	return fmt.Sprintf("%04d/%02d", start, (start+1)%100)
}

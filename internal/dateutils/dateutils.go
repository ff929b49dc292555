// Package dateutils provides date parsing shared by the statement parsers.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts seen across statement formats, most common first.
const (
	DateLayoutUS   = "01/02/2006"
	DateLayoutISO  = "2006-01-02"
	DateLayoutLong = "January 2, 2006"
)

// CommonFormats is the list of layouts tried in order when parsing a date.
var CommonFormats = []string{
	DateLayoutUS,
	DateLayoutISO,
	DateLayoutLong,
	"1/2/2006",
	"Jan 2, 2006",
	"01/02/06",
}

var periodPattern = regexp.MustCompile(
	`(\d{1,2}/\d{1,2}/\d{2,4})\s*(?:-|through|to)\s*(\d{1,2}/\d{1,2}/\d{2,4})`)

// ParseDate attempts to parse a date string using the common layouts.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = CleanDateString(dateStr)
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParsePeriod extracts a "start - end" date range from a line of text.
// Returns an error when no range is present or either bound is unparsable.
func ParsePeriod(line string) (start, end time.Time, err error) {
	m := periodPattern.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("no date range found in %q", strings.TrimSpace(line))
	}
	start, err = ParseDate(m[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = ParseDate(m[2])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("period end %s precedes start %s", m[2], m[1])
	}
	return start, end, nil
}

// CleanDateString trims and collapses whitespace in a date string.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	re := regexp.MustCompile(`\s+`)
	return re.ReplaceAllString(dateStr, " ")
}

// StartOfMonth returns the first day of the month for a given date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

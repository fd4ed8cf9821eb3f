package extractors

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var dateLayouts = []string{
	"2006-01-02",
	"02Jan06",
	"02Jan2006",
	"2006-01",
	"01/06",
	"0106",
}

// ParseTime parses a provider timestamp. Unparseable or empty input yields
// nil.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeDate renders a document or card date as 2006-01-02 when it can be
// parsed and returns it unchanged otherwise.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t := ParseTime(s); t != nil {
		return t.Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// MinutesBetween is the whole number of minutes from start to end. nil when
// either end is missing or the range is negative.
func MinutesBetween(start, end *time.Time) *int {
	if start == nil || end == nil || end.Before(*start) {
		return nil
	}
	m := int(end.Sub(*start).Minutes())
	return &m
}

// NightsBetween counts calendar days between check-in and check-out.
func NightsBetween(checkIn, checkOut *time.Time) *int {
	if checkIn == nil || checkOut == nil {
		return nil
	}
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	if out.Before(in) {
		return nil
	}
	n := int(out.Sub(in).Hours() / 24)
	return &n
}

// RentalDaysBetween counts started 24 hour periods between pickup and return.
func RentalDaysBetween(pickup, dropoff *time.Time) *int {
	if pickup == nil || dropoff == nil || dropoff.Before(*pickup) {
		return nil
	}
	d := int(math.Ceil(dropoff.Sub(*pickup).Hours() / 24))
	return &d
}

// ParseAmount parses a money amount, tolerating thousands separators.
func ParseAmount(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

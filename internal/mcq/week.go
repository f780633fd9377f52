package mcq

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultOffset is the wall-clock offset the timetable and quota weeks are expressed in.
const DefaultOffset = "+05:30"

// ParseOffset turns "+HH:MM" / "-HH:MM" (or "Z", "UTC") into a fixed zone.
func ParseOffset(offset string) (*time.Location, error) {
	offset = strings.TrimSpace(offset)
	if offset == "" || offset == "Z" || strings.EqualFold(offset, "UTC") {
		return time.UTC, nil
	}
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return nil, fmt.Errorf("invalid utc offset %q", offset)
	}
	hh, err := strconv.Atoi(offset[1:3])
	if err != nil || hh > 14 {
		return nil, fmt.Errorf("invalid utc offset %q", offset)
	}
	mm, err := strconv.Atoi(offset[4:6])
	if err != nil || mm > 59 {
		return nil, fmt.Errorf("invalid utc offset %q", offset)
	}

	seconds := hh*3600 + mm*60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), nil
}

// QuotaWeek returns the (week, year) partition of t in loc. Weeks start on Sunday and
// week 1 is the week containing January 1st, so the last days of December can fall in
// week 1 while year stays the calendar year.
func QuotaWeek(t time.Time, loc *time.Location) (week, year int) {
	local := t.In(loc)
	year = local.Year()

	jan1 := int(time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Weekday())
	week = (local.YearDay()+jan1-1)/7 + 1
	if week > weeksInYear(year, loc) {
		week = 1
	}
	return week, year
}

func weeksInYear(year int, loc *time.Location) int {
	days := time.Date(year, time.December, 31, 0, 0, 0, 0, loc).YearDay()
	jan1 := int(time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Weekday())
	nextJan1 := int(time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).Weekday())
	return (days + jan1 - nextJan1) / 7
}

// NextOccurrence returns the first instant at or after now that falls on day at hour:00:00 in loc.
func NextOccurrence(now time.Time, day time.Weekday, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	delta := (int(day) - int(local.Weekday()) + 7) % 7
	next := time.Date(local.Year(), local.Month(), local.Day()+delta, hour, 0, 0, 0, loc)
	if next.Before(local) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

package utils

import (
	"fmt"
	"regexp"
	"time"
)

const DateLayout = "2006-01-02"

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsValidClock reports whether s is a zero-padded "HH:MM" string. The
// fixed width is what makes lexicographic comparison of departure times
// valid everywhere else in the codebase.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// StartOfDay truncates t to midnight UTC. Trip dates are persisted at
// UTC midnight, so every date-granularity comparison and query bound
// must be taken in UTC too; truncating in the server's own zone would
// shift the day boundary and misclassify today's trips on any host west
// of Greenwich.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 23, 59, 59, 999999999, time.UTC)
}

// SameDate compares two instants at date-only granularity, in UTC.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DateBefore reports whether a falls on an earlier calendar date than b.
// Both sides are normalized to midnight first.
func DateBefore(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b))
}

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// FormatMemberSince renders the month-and-year profile label, e.g.
// "Enero 2023".
func FormatMemberSince(t time.Time) string {
	return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
}

func FormatDuration(duration time.Duration) string {
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// TripDuration derives the display duration from departure and arrival
// clock strings. An empty string is returned when either side is missing
// or malformed; overnight arrivals wrap to the next day.
func TripDuration(departure, arrival string) string {
	if !IsValidClock(departure) || !IsValidClock(arrival) {
		return ""
	}

	dep, _ := time.Parse("15:04", departure)
	arr, _ := time.Parse("15:04", arrival)
	if arr.Before(dep) {
		arr = arr.Add(24 * time.Hour)
	}

	return FormatDuration(arr.Sub(dep))
}

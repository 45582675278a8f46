package utils

import (
	"testing"
	"time"
)

func TestStartOfDayIgnoresServerZone(t *testing.T) {
	instant := time.Date(2026, time.August, 31, 13, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("ART", -3*60*60),
		time.FixedZone("NZST", 12*60*60),
	}
	for _, zone := range zones {
		if got := StartOfDay(instant.In(zone)); !got.Equal(want) {
			t.Errorf("StartOfDay in %v = %v, want %v", zone, got, want)
		}
	}
}

// A morning in a zone west of Greenwich is still the same calendar day
// as the UTC midnight a trip is stored at.
func TestDateBeforeAcrossZones(t *testing.T) {
	tripDate := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	art := time.FixedZone("ART", -3*60*60)

	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, art)
	if DateBefore(tripDate, now) {
		t.Fatal("today's trip classified as past")
	}

	now = time.Date(2026, time.September, 1, 10, 0, 0, 0, art)
	if !DateBefore(tripDate, now) {
		t.Fatal("yesterday's trip not classified as past")
	}
}

func TestSameDateNormalizesToUTC(t *testing.T) {
	utcMidnight := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	// 22:00 ART on the 31st is already September 1st in UTC.
	lateEvening := time.Date(2026, time.August, 31, 22, 0, 0, 0, time.FixedZone("ART", -3*60*60))

	if SameDate(utcMidnight, lateEvening) {
		t.Fatal("instants on different UTC dates reported equal")
	}
	if !SameDate(utcMidnight, utcMidnight.Add(13*time.Hour)) {
		t.Fatal("same UTC date reported different")
	}
}

package models

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusAccepted, true},
		{BookingStatusPending, BookingStatusRejected, true},
		{BookingStatusPending, BookingStatusCanceled, true},
		{BookingStatusAccepted, BookingStatusCanceled, true},
		{BookingStatusAccepted, BookingStatusRejected, false},
		{BookingStatusAccepted, BookingStatusPending, false},
		{BookingStatusRejected, BookingStatusAccepted, false},
		{BookingStatusRejected, BookingStatusCanceled, false},
		{BookingStatusCanceled, BookingStatusPending, false},
		{BookingStatusCanceled, BookingStatusAccepted, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	for status, terminal := range map[BookingStatus]bool{
		BookingStatusPending:  false,
		BookingStatusAccepted: false,
		BookingStatusRejected: true,
		BookingStatusCanceled: true,
	} {
		if got := status.IsTerminal(); got != terminal {
			t.Errorf("%s terminal = %v, want %v", status, got, terminal)
		}
	}
}

func TestTripNormalizeFillsDefaults(t *testing.T) {
	trip := &Trip{}
	trip.Normalize()

	if trip.Currency != "ARS" {
		t.Errorf("currency = %q, want ARS", trip.Currency)
	}
	if trip.Status != TripStatusPublished {
		t.Errorf("status = %q, want published", trip.Status)
	}
	if trip.Stops == nil || trip.Features == nil {
		t.Error("slices not initialized")
	}
}

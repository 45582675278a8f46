package mongodb

import "testing"

func TestFlooredSeats(t *testing.T) {
	cases := []struct {
		name    string
		current int
		booked  int
		want    int
	}{
		{"plenty left", 4, 1, 3},
		{"exact fit", 3, 3, 0},
		{"overbooked floors at zero", 1, 2, 0},
		{"already empty", 0, 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := flooredSeats(tc.current, tc.booked); got != tc.want {
				t.Fatalf("flooredSeats(%d, %d) = %d, want %d", tc.current, tc.booked, got, tc.want)
			}
		})
	}
}

// Two bookings that both read the same stale count both land; the write
// computed from the stale read bottoms out at zero instead of going
// negative.
func TestFlooredSeatsStaleReadsBottomOut(t *testing.T) {
	stored := 1

	readA := stored
	readB := stored

	stored = flooredSeats(readA, 1)
	if stored != 0 {
		t.Fatalf("after first booking stored = %d, want 0", stored)
	}

	stored = flooredSeats(readB, 1)
	if stored != 0 {
		t.Fatalf("after second stale booking stored = %d, want 0", stored)
	}
}

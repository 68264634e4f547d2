package cars

import (
	"testing"
	"time"
)

func window(startHour, endHour int) Availability {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return Availability{
		StartDatetime: day.Add(time.Duration(startHour) * time.Hour),
		EndDatetime:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestAvailabilityMatchesExactOnly(t *testing.T) {
	w := window(10, 15)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if !w.Matches(day.Add(10*time.Hour), day.Add(15*time.Hour)) {
		t.Error("expected exact window to match")
	}
	// A near-miss is not a match; removal must leave it in place.
	if w.Matches(day.Add(10*time.Hour), day.Add(15*time.Hour).Add(time.Second)) {
		t.Error("off-by-a-second end must not match")
	}
	if w.Matches(day.Add(9*time.Hour), day.Add(15*time.Hour)) {
		t.Error("different start must not match")
	}
}

func TestAvailabilityMatchesAcrossZones(t *testing.T) {
	w := window(10, 15)
	ist := time.FixedZone("IST", 5*3600+1800)

	// Same instant in another zone still matches.
	if !w.Matches(w.StartDatetime.In(ist), w.EndDatetime.In(ist)) {
		t.Error("expected zone-shifted identical instants to match")
	}
}

func TestAvailabilityOverlaps(t *testing.T) {
	w := window(10, 15)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", day.Add(11 * time.Hour), day.Add(14 * time.Hour), true},
		{"spanning", day.Add(9 * time.Hour), day.Add(16 * time.Hour), true},
		{"left edge cross", day.Add(9 * time.Hour), day.Add(11 * time.Hour), true},
		{"right edge cross", day.Add(14 * time.Hour), day.Add(16 * time.Hour), true},
		{"before", day.Add(7 * time.Hour), day.Add(9 * time.Hour), false},
		{"after", day.Add(16 * time.Hour), day.Add(18 * time.Hour), false},
		{"touching end", day.Add(15 * time.Hour), day.Add(17 * time.Hour), false},
		{"touching start", day.Add(8 * time.Hour), day.Add(10 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Overlaps(tc.start, tc.end); got != tc.want {
				t.Errorf("Overlaps(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

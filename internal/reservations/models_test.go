package reservations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	reservation := &Reservation{
		StartTime: base,
		EndTime:   base.Add(2 * time.Hour), // [10:00, 12:00)
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{"identical window", base, base.Add(2 * time.Hour), true},
		{"contained window", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"partial overlap at start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"partial overlap at end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"surrounding window", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"back to back after", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"back to back before", base.Add(-2 * time.Hour), base, false},
		{"disjoint after", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
		{"disjoint before", base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, reservation.Overlaps(tt.start, tt.end))
		})
	}
}

func TestCalculateAmountRoundsPartialHoursUp(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 17.0, calculateAmount(start, start.Add(2*time.Hour), 8.5))
	assert.Equal(t, 25.5, calculateAmount(start, start.Add(2*time.Hour+time.Minute), 8.5))
	assert.Equal(t, 8.5, calculateAmount(start, start.Add(15*time.Minute), 8.5))
}

func TestGenerateReservationRef(t *testing.T) {
	ref := generateReservationRef()
	assert.Len(t, ref, 14)
	assert.Equal(t, "PRK-", ref[:4])
	assert.NotEqual(t, ref, generateReservationRef())
}

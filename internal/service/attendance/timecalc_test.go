package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
)

func dayShift() *shift.Shift {
	return &shift.Shift{
		ID:        "sh-day",
		StartTime: "09:00",
		EndTime:   "18:00",
		IsActive:  true,
	}
}

func TestShiftBounds(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	start, end, err := ShiftBounds(dayShift(), now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC), end)
}

func TestShiftBounds_Overnight(t *testing.T) {
	night := &shift.Shift{StartTime: "22:00", EndTime: "06:00"}
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	start, end, err := ShiftBounds(night, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 480, MinutesBetween(start, end))
}

func TestShiftBounds_InvalidTime(t *testing.T) {
	bad := &shift.Shift{StartTime: "9am", EndTime: "18:00"}
	_, _, err := ShiftBounds(bad, time.Now())
	assert.Error(t, err)
}

func TestLateMinutes(t *testing.T) {
	shiftStart := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	grace := 15

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exactly on time", shiftStart, 0},
		{"within grace", time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC), 0},
		{"exactly at grace limit", time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC), 0},
		// Past grace, lateness is measured from the scheduled start, not
		// from the grace limit.
		{"one minute past grace", time.Date(2026, 3, 10, 9, 16, 0, 0, time.UTC), 16},
		{"twenty past", time.Date(2026, 3, 10, 9, 20, 0, 0, time.UTC), 20},
		// Seconds are floored away.
		{"fifty-nine seconds past grace limit", time.Date(2026, 3, 10, 9, 15, 59, 0, time.UTC), 15},
		{"before shift start", time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LateMinutes(shiftStart, grace, tt.now))
		})
	}
}

func TestLateMinutes_ZeroGrace(t *testing.T) {
	shiftStart := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// 09:00:59 is still within the start minute once floored.
	assert.Equal(t, 0, LateMinutes(shiftStart, 0, time.Date(2026, 3, 10, 9, 0, 59, 0, time.UTC)))
	assert.Equal(t, 1, LateMinutes(shiftStart, 0, time.Date(2026, 3, 10, 9, 1, 0, 0, time.UTC)))
}

func TestMinutesBetween(t *testing.T) {
	a := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, MinutesBetween(a, a.Add(90*time.Minute)))
	assert.Equal(t, 90, MinutesBetween(a, a.Add(90*time.Minute+59*time.Second)))
	assert.Equal(t, 0, MinutesBetween(a, a.Add(-time.Hour)))
}

func TestOvertimeMinutes(t *testing.T) {
	assert.Equal(t, 0, OvertimeMinutes(480, 480))
	assert.Equal(t, 30, OvertimeMinutes(510, 480))
	assert.Equal(t, 0, OvertimeMinutes(300, 480))
}

func TestEarlyLeaveMinutes(t *testing.T) {
	shiftEnd := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	// Leaving an hour early having worked less than expected.
	now := shiftEnd.Add(-time.Hour)
	assert.Equal(t, 60, EarlyLeaveMinutes(now, shiftEnd, 420, 540))

	// Worked the full expected minutes despite leaving before shift end
	// (e.g. short breaks): not an early leave.
	assert.Equal(t, 0, EarlyLeaveMinutes(now, shiftEnd, 540, 540))

	// At or past shift end.
	assert.Equal(t, 0, EarlyLeaveMinutes(shiftEnd, shiftEnd, 420, 540))
	assert.Equal(t, 0, EarlyLeaveMinutes(shiftEnd.Add(time.Minute), shiftEnd, 420, 540))
}

func TestEffectiveGrace(t *testing.T) {
	assert.Equal(t, 15, EffectiveGrace(15, 10))
	assert.Equal(t, 20, EffectiveGrace(15, 20))
	assert.Equal(t, 0, EffectiveGrace(0, 0))
}

func TestWeekdayCode(t *testing.T) {
	// 2026-03-09 is a Monday.
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	codes := []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}
	for i, want := range codes {
		assert.Equal(t, want, WeekdayCode(monday.AddDate(0, 0, i)))
	}
}

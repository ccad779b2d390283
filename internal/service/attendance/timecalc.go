package attendance

import (
	"fmt"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/shift"
)

// Pure time arithmetic shared by check-in, check-out, the reconciler and the
// late check-in sweep. All minute quantities are floored: a 09:00:59 check-in
// against a 09:00 shift start counts as 0 late minutes, 09:01:00 counts as 1.

// ShiftBounds constructs the shift's start and end instants on the same
// wall-clock day as now, in now's location. A shift whose end is not after
// its start crosses midnight; its end lands on the next day.
func ShiftBounds(s *shift.Shift, now time.Time) (start, end time.Time, err error) {
	startOfDay, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid shift start time %q: %w", s.StartTime, err)
	}
	endOfDay, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid shift end time %q: %w", s.EndTime, err)
	}

	loc := now.Location()
	start = time.Date(now.Year(), now.Month(), now.Day(), startOfDay.Hour(), startOfDay.Minute(), 0, 0, loc)
	end = time.Date(now.Year(), now.Month(), now.Day(), endOfDay.Hour(), endOfDay.Minute(), 0, 0, loc)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// MinutesBetween returns the whole minutes from a to b, floored, never negative.
func MinutesBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// LateMinutes returns 0 while now is within shiftStart plus grace; once past
// grace it measures from the scheduled start, not from the grace limit.
func LateMinutes(shiftStart time.Time, graceMinutes int, now time.Time) int {
	graceLimit := shiftStart.Add(time.Duration(graceMinutes) * time.Minute)
	if !now.After(graceLimit) {
		return 0
	}
	return MinutesBetween(shiftStart, now)
}

// OvertimeMinutes returns worked minutes above the threshold, floored at zero.
func OvertimeMinutes(workedMinutes, thresholdMinutes int) int {
	if workedMinutes > thresholdMinutes {
		return workedMinutes - thresholdMinutes
	}
	return 0
}

// EarlyLeaveMinutes returns minutes left until shift end, but only when the
// employee both leaves before the scheduled end and worked less than the
// expected shift duration.
func EarlyLeaveMinutes(now, shiftEnd time.Time, workedMinutes, expectedMinutes int) int {
	if !now.Before(shiftEnd) {
		return 0
	}
	if workedMinutes >= expectedMinutes {
		return 0
	}
	return MinutesBetween(now, shiftEnd)
}

// EffectiveGrace is the grace applied at check-in: the larger of the shift's
// own grace and the company-wide fallback.
func EffectiveGrace(shiftGrace, companyGrace int) int {
	if shiftGrace > companyGrace {
		return shiftGrace
	}
	return companyGrace
}

// WeekdayCode maps a time to the MON..SUN codes used in Shift.WorkingDays.
func WeekdayCode(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "MON"
	case time.Tuesday:
		return "TUE"
	case time.Wednesday:
		return "WED"
	case time.Thursday:
		return "THU"
	case time.Friday:
		return "FRI"
	case time.Saturday:
		return "SAT"
	default:
		return "SUN"
	}
}

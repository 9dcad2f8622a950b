package types

import (
	"fmt"
	"time"
)

// Lengths of one billing unit when durations are accelerated for testing.
const (
	AcceleratedMonth = time.Minute
	AcceleratedYear  = 5 * time.Minute
)

// PeriodEnd returns the end of a billing period of value units starting at start.
//
// In calendar mode months and years are added on the calendar with the day of
// month clamped to the target month (Jan 31 + 1 month is Feb 28 or 29). In
// accelerated mode a month lasts one minute and a year five minutes.
func PeriodEnd(start time.Time, unit BillingPeriodUnit, value int, accelerated bool) (time.Time, error) {
	if value < 1 {
		return start, fmt.Errorf("billing period value must be a positive integer, got %d", value)
	}

	switch unit {
	case BillingPeriodUnitMonth:
		if accelerated {
			return start.Add(time.Duration(value) * AcceleratedMonth), nil
		}
		return AddClampedDate(start, 0, value, 0), nil
	case BillingPeriodUnitYear:
		if accelerated {
			return start.Add(time.Duration(value) * AcceleratedYear), nil
		}
		return AddClampedDate(start, value, 0, 0), nil
	default:
		return start, fmt.Errorf("invalid billing period unit: %s", unit)
	}
}

// AddClampedDate adds years, months and days to t. Months are added first and
// the day is clamped to the last day of the resulting month, so the result
// never spills over into the following month.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// day 0 of the next month is the last day of this one
	lastDay := time.Date(newY, newM+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location()).AddDate(0, 0, days)
}

package s_curve

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const daysPerWeek = 7

type WeekNumber struct {
	Week int
	Year int
}

// WeekNumberOf returns the ISO week containing date.
func WeekNumberOf(date time.Time) WeekNumber {
	year, week := date.ISOWeek()
	return WeekNumber{Year: year, Week: week}
}

// String formats the week as ISO 8601, e.g. "2025-W03".
func (w WeekNumber) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// WeekBucket is a 7-day window of the curve. PV and EV hold the value added in the week,
// the cumulative fields are filled by AccumulateBuckets.
type WeekBucket struct {
	WeekStart    time.Time
	WeekEnd      time.Time
	Label        string
	PV           decimal.Decimal
	EV           decimal.Decimal
	PVCumulative decimal.Decimal
	EVCumulative decimal.Decimal
}

// Contains reports whether date falls within [WeekStart, WeekEnd], both inclusive.
func (b WeekBucket) Contains(date time.Time) bool {
	d := dateOf(date)
	return !d.Before(b.WeekStart) && !d.After(b.WeekEnd)
}

// BuildWeekBuckets emits successive 7-day buckets from rangeStart until a bucket would start after
// rangeEnd. The last bucket is not clipped to rangeEnd.
// It panics when rangeEnd is before rangeStart.
func BuildWeekBuckets(rangeStart, rangeEnd time.Time) []WeekBucket {
	start, end := dateOf(rangeStart), dateOf(rangeEnd)
	if end.Before(start) {
		panic(fmt.Sprintf("s_curve: range end %s is before range start %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly)))
	}

	buckets := make([]WeekBucket, 0, inclusiveDays(start, end)/daysPerWeek+1)
	for weekStart := start; !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, daysPerWeek) {
		buckets = append(buckets, WeekBucket{
			WeekStart:    weekStart,
			WeekEnd:      weekStart.AddDate(0, 0, daysPerWeek-1),
			Label:        WeekNumberOf(weekStart).String(),
			PV:           decimal.Zero,
			EV:           decimal.Zero,
			PVCumulative: decimal.Zero,
			EVCumulative: decimal.Zero,
		})
	}
	return buckets
}

// dateOf drops the time of day, keeping the calendar date in UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// inclusiveDays counts the calendar days of [from, to]; zero or negative when to is before from.
func inclusiveDays(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from))/(24*time.Hour)) + 1
}

func minDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// Package analytics implements the derived-analytics engine: pure
// computations that turn raw transaction, budget and goal collections into
// dashboard statistics, filtered views, bill predictions and a composite
// financial health score. Every function is deterministic; wherever the
// current time matters it is an explicit parameter.
package analytics

import "time"

const (
	GranularityNone  Granularity = "none"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

const (
	StepPrev StepDirection = "prev"
	StepNext StepDirection = "next"
)

type (
	Granularity string

	StepDirection string

	// DateWindow is an inclusive start/end pair of instants.
	DateWindow struct {
		Start time.Time
		End   time.Time
	}
)

// Sentinel bounds for the unbounded ("none") window.
var (
	farPast   = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	farFuture = time.Date(9999, time.December, 31, 23, 59, 59, 999000000, time.UTC)
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityNone, GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// ResolveWindow computes the inclusive window of the given granularity that
// contains the reference instant. Weeks start on Monday regardless of locale;
// a Sunday reference maps to six days after the preceding Monday.
func ResolveWindow(reference time.Time, g Granularity) DateWindow {
	ref := reference.UTC()
	year, month, day := ref.Date()

	switch g {
	case GranularityDay:
		start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return DateWindow{Start: start, End: endOfDay(start)}
	case GranularityWeek:
		// Weekday() is 0 for Sunday; shift so Monday is day zero.
		offset := (int(ref.Weekday()) + 6) % 7
		monday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
		return DateWindow{Start: monday, End: endOfDay(monday.AddDate(0, 0, 6))}
	case GranularityMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		lastDay := start.AddDate(0, 1, -1)
		return DateWindow{Start: start, End: endOfDay(lastDay)}
	case GranularityYear:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateWindow{Start: start, End: endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))}
	default:
		return DateWindow{Start: farPast, End: farFuture}
	}
}

// StepWindow returns a new reference shifted by exactly one unit of the
// granularity. Month and year steps use calendar arithmetic and are
// overflow-tolerant: stepping from Jan 31 by one month lands in early March,
// matching time.AddDate semantics. For GranularityNone the reference is
// returned unchanged.
func StepWindow(reference time.Time, g Granularity, dir StepDirection) time.Time {
	sign := 1
	if dir == StepPrev {
		sign = -1
	}

	switch g {
	case GranularityDay:
		return reference.AddDate(0, 0, sign)
	case GranularityWeek:
		return reference.AddDate(0, 0, 7*sign)
	case GranularityMonth:
		return reference.AddDate(0, sign, 0)
	case GranularityYear:
		return reference.AddDate(sign, 0, 0)
	default:
		return reference
	}
}

// Contains reports whether the instant t falls within the window, comparing
// date-only components so time-of-day and timezone offsets cannot push a
// record across a window boundary.
func (w DateWindow) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(dateOnly(w.Start)) && !d.After(dateOnly(w.End))
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func endOfDay(startOfDay time.Time) time.Time {
	return startOfDay.Add(24*time.Hour - time.Millisecond)
}

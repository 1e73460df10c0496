package report

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DailyFallbackDays bounds how far back a daily run may reach when
// yesterday's report is missing. A report dated at midnight is eligible only
// while it is no older than this many days before the run time.
const DailyFallbackDays = 3

// Window is an inclusive range of calendar dates.
type Window struct {
	Start civil.Date
	End   civil.Date
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Window) String() string {
	if w.Start == w.End {
		return w.Start.String()
	}
	return fmt.Sprintf("%s..%s", w.Start, w.End)
}

// Resolve computes the reporting period a run at now should upload.
//
//   - Daily: yesterday.
//   - Weekly: Monday to Sunday of the week before the current one.
//   - Monthly: the whole previous calendar month.
func Resolve(c Cadence, now time.Time) Window {
	today := civil.DateOf(now)

	switch c {
	case Weekly:
		// time.Weekday counts from Sunday; shift so Monday is 0.
		sinceMonday := (int(now.Weekday()) + 6) % 7
		lastMonday := today.AddDays(-sinceMonday - 7)
		return Window{Start: lastMonday, End: lastMonday.AddDays(6)}
	case Monthly:
		firstOfMonth := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
		lastMonthEnd := firstOfMonth.AddDays(-1)
		return Window{
			Start: civil.Date{Year: lastMonthEnd.Year, Month: lastMonthEnd.Month, Day: 1},
			End:   lastMonthEnd,
		}
	default:
		yesterday := today.AddDays(-1)
		return Window{Start: yesterday, End: yesterday}
	}
}

// PeriodKey renders the period a report date belongs to: YYYY-MM for monthly
// reports, YYYY-MM-DD otherwise.
func PeriodKey(c Cadence, d civil.Date) string {
	if c == Monthly {
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	}
	return d.String()
}

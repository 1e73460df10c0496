package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cadence is the reporting frequency of a family of report files.
type Cadence string

const (
	// Daily reports cover a single calendar day.
	Daily Cadence = "daily"
	// Weekly reports cover a Monday to Sunday week.
	Weekly Cadence = "weekly"
	// Monthly reports cover a calendar month.
	Monthly Cadence = "monthly"
)

var (
	// ErrSourceDirMissing is returned when the report directory does not exist.
	ErrSourceDirMissing = errors.New("source directory not found")

	// ErrNoCandidate is returned when no report file can be selected for a run.
	ErrNoCandidate = errors.New("no report candidate found")

	// ErrOutsideSchedule is returned when a run happens on a day the cadence
	// is not scheduled for and the run was not forced.
	ErrOutsideSchedule = errors.New("run outside of schedule")
)

// Cadences lists every supported cadence.
var Cadences = []Cadence{Daily, Weekly, Monthly}

// ParseCadence converts a string such as "weekly" to a Cadence.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown cadence %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the supported cadences.
func (c Cadence) Valid() bool {
	switch c {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

func (c Cadence) String() string {
	return string(c)
}

// Gate checks that now is a scheduled run day for the cadence.
// Weekly uploads run on Mondays and monthly uploads on the first day of the
// month; daily uploads run every day.
func Gate(c Cadence, now time.Time) error {
	switch c {
	case Weekly:
		if now.Weekday() != time.Monday {
			return fmt.Errorf("%w: weekly uploads run on Monday, today is %s", ErrOutsideSchedule, now.Weekday())
		}
	case Monthly:
		if now.Day() != 1 {
			return fmt.Errorf("%w: monthly uploads run on day 1, today is day %d", ErrOutsideSchedule, now.Day())
		}
	}
	return nil
}

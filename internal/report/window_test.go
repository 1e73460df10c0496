package report

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		cadence Cadence
		now     time.Time
		want    Window
	}{
		{
			name:    "daily",
			cadence: Daily,
			now:     time.Date(2025, time.May, 28, 7, 0, 0, 0, time.UTC),
			want:    Window{Start: date(2025, time.May, 27), End: date(2025, time.May, 27)},
		},
		{
			name:    "daily across year boundary",
			cadence: Daily,
			now:     time.Date(2025, time.January, 1, 7, 0, 0, 0, time.UTC),
			want:    Window{Start: date(2024, time.December, 31), End: date(2024, time.December, 31)},
		},
		{
			name:    "weekly on monday",
			cadence: Weekly,
			now:     time.Date(2025, time.June, 2, 7, 10, 0, 0, time.UTC),
			want:    Window{Start: date(2025, time.May, 26), End: date(2025, time.June, 1)},
		},
		{
			name:    "weekly on sunday",
			cadence: Weekly,
			now:     time.Date(2025, time.June, 8, 7, 10, 0, 0, time.UTC),
			want:    Window{Start: date(2025, time.May, 26), End: date(2025, time.June, 1)},
		},
		{
			name:    "monthly",
			cadence: Monthly,
			now:     time.Date(2025, time.March, 1, 7, 15, 0, 0, time.UTC),
			want:    Window{Start: date(2025, time.February, 1), End: date(2025, time.February, 28)},
		},
		{
			name:    "monthly in january",
			cadence: Monthly,
			now:     time.Date(2025, time.January, 17, 7, 15, 0, 0, time.UTC),
			want:    Window{Start: date(2024, time.December, 1), End: date(2024, time.December, 31)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.cadence, tt.now))
		})
	}
}

func TestResolve_WeeklyExcludesCurrentWeek(t *testing.T) {
	start := time.Date(2024, time.December, 23, 12, 0, 0, 0, time.UTC) // a Monday
	for i := 0; i < 28; i++ {
		now := start.AddDate(0, 0, i)
		w := Resolve(Weekly, now)

		assert.Equal(t, time.Monday, w.Start.In(time.UTC).Weekday(), now)
		assert.Equal(t, time.Sunday, w.End.In(time.UTC).Weekday(), now)
		assert.Equal(t, 6, w.End.DaysSince(w.Start), now)

		today := civil.DateOf(now)
		sinceMonday := (int(now.Weekday()) + 6) % 7
		currentMonday := today.AddDays(-sinceMonday)
		assert.True(t, w.End.Before(currentMonday), "window %s overlaps week of %s", w, today)
		assert.Equal(t, currentMonday.AddDays(-1), w.End, now)
	}
}

func TestPeriodKey(t *testing.T) {
	d := date(2025, time.February, 28)
	assert.Equal(t, "2025-02-28", PeriodKey(Daily, d))
	assert.Equal(t, "2025-02-28", PeriodKey(Weekly, d))
	assert.Equal(t, "2025-02", PeriodKey(Monthly, d))
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: date(2025, time.May, 26), End: date(2025, time.June, 1)}
	assert.True(t, w.Contains(date(2025, time.May, 26)))
	assert.True(t, w.Contains(date(2025, time.June, 1)))
	assert.False(t, w.Contains(date(2025, time.May, 25)))
	assert.False(t, w.Contains(date(2025, time.June, 2)))
	assert.Equal(t, "2025-05-26..2025-06-01", w.String())
}

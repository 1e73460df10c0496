package report

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(name string, d civil.Date, mod time.Time) Candidate {
	return Candidate{Filename: name, Path: "/reports/" + name, Date: d, Size: 1024, ModTime: mod}
}

func TestSelect_DailyExactPrefersLatestModified(t *testing.T) {
	now := time.Date(2025, time.May, 28, 7, 0, 0, 0, time.UTC)
	older := candidate("PV_Informe_Diario_20250527.pdf", date(2025, time.May, 27), now.Add(-5*time.Hour))
	newer := candidate("PV_Informe_Diario_2025-05-27.pdf", date(2025, time.May, 27), now.Add(-1*time.Hour))
	other := candidate("PV_Informe_Diario_20250526.pdf", date(2025, time.May, 26), now)

	got, sel, err := Select(Daily, now, []Candidate{older, other, newer})
	require.NoError(t, err)
	assert.Equal(t, SelectedExact, sel)
	assert.Equal(t, newer.Filename, got.Filename)
}

func TestSelect_DailyFallbackWithinThreeDays(t *testing.T) {
	now := time.Date(2025, time.May, 28, 7, 0, 0, 0, time.UTC)
	tooOld := candidate("PV_Informe_Diario_20250524.pdf", date(2025, time.May, 24), now)
	recent := candidate("PV_Informe_Diario_20250526.pdf", date(2025, time.May, 26), now.Add(-48*time.Hour))
	edge := candidate("PV_Informe_Diario_20250525.pdf", date(2025, time.May, 25), now)

	got, sel, err := Select(Daily, now, []Candidate{tooOld, edge, recent})
	require.NoError(t, err)
	assert.Equal(t, SelectedFallback, sel)
	assert.Equal(t, recent.Filename, got.Filename)

	// Midnight of May 25 is more than three days before 07:00 on May 28.
	_, _, err = Select(Daily, now, []Candidate{tooOld, edge})
	assert.ErrorIs(t, err, ErrNoCandidate)

	_, _, err = Select(Daily, now, []Candidate{tooOld})
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestSelect_DailyFallbackCutoffAtMidnight(t *testing.T) {
	midnight := time.Date(2025, time.May, 28, 0, 0, 0, 0, time.UTC)
	edge := candidate("PV_Informe_Diario_20250525.pdf", date(2025, time.May, 25), midnight)

	got, sel, err := Select(Daily, midnight, []Candidate{edge})
	require.NoError(t, err)
	assert.Equal(t, SelectedFallback, sel)
	assert.Equal(t, edge.Filename, got.Filename)

	_, _, err = Select(Daily, midnight.Add(time.Second), []Candidate{edge})
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestSelect_WeeklyExactPrefersLatestDate(t *testing.T) {
	now := time.Date(2025, time.June, 2, 7, 10, 0, 0, time.UTC)
	monday := candidate("PV_Informe_Semanal_20250526.pdf", date(2025, time.May, 26), now)
	sunday := candidate("PV_Informe_Semanal_20250601.pdf", date(2025, time.June, 1), now.Add(-time.Hour))
	current := candidate("PV_Informe_Semanal_20250602.pdf", date(2025, time.June, 2), now)

	got, sel, err := Select(Weekly, now, []Candidate{monday, current, sunday})
	require.NoError(t, err)
	assert.Equal(t, SelectedExact, sel)
	assert.Equal(t, sunday.Filename, got.Filename)
}

func TestSelect_WeeklyFallbackUsesNewestOverall(t *testing.T) {
	now := time.Date(2025, time.June, 2, 7, 10, 0, 0, time.UTC)
	old := candidate("PV_Informe_Semanal_20250504.pdf", date(2025, time.May, 4), now)
	older := candidate("PV_Informe_Semanal_20250427.pdf", date(2025, time.April, 27), now)

	got, sel, err := Select(Weekly, now, []Candidate{older, old})
	require.NoError(t, err)
	assert.Equal(t, SelectedFallback, sel)
	assert.Equal(t, old.Filename, got.Filename)
}

func TestSelect_Monthly(t *testing.T) {
	now := time.Date(2025, time.March, 1, 7, 15, 0, 0, time.UTC)
	feb := candidate("PV_Informe_Mensual_202502.pdf", date(2025, time.February, 28), now)
	jan := candidate("PV_Informe_Mensual_2025-01.pdf", date(2025, time.January, 31), now)

	got, sel, err := Select(Monthly, now, []Candidate{jan, feb})
	require.NoError(t, err)
	assert.Equal(t, SelectedExact, sel)
	assert.Equal(t, feb.Filename, got.Filename)

	got, sel, err = Select(Monthly, now, []Candidate{jan})
	require.NoError(t, err)
	assert.Equal(t, SelectedFallback, sel)
	assert.Equal(t, jan.Filename, got.Filename)
}

func TestSelect_NoCandidates(t *testing.T) {
	for _, c := range Cadences {
		_, _, err := Select(c, time.Now(), nil)
		assert.ErrorIs(t, err, ErrNoCandidate, c)
	}
}

func TestNewest(t *testing.T) {
	now := time.Now()
	a := candidate("a", date(2025, time.May, 1), now)
	b := candidate("b", date(2025, time.May, 3), now)
	c := candidate("c", date(2025, time.May, 2), now)

	got := Newest([]Candidate{a, b, c}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Filename)
	assert.Equal(t, "c", got[1].Filename)
}

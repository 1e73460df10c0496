package report

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	daily := Patterns(Daily, DailyPrefix)
	monthly := Patterns(Monthly, MonthlyPrefix)

	tests := []struct {
		name     string
		filename string
		patterns string
		want     civil.Date
		wantOK   bool
	}{
		{"eight digit", "PV_Informe_Diario_20250527.pdf", "daily", civil.Date{Year: 2025, Month: time.May, Day: 27}, true},
		{"hyphenated", "PV_Informe_Diario_2025-05-27.pdf", "daily", civil.Date{Year: 2025, Month: time.May, Day: 27}, true},
		{"case insensitive", "pv_informe_diario_20250527.PDF", "daily", civil.Date{Year: 2025, Month: time.May, Day: 27}, true},
		{"invalid month", "PV_Informe_Diario_20251327.pdf", "daily", civil.Date{}, false},
		{"invalid day", "PV_Informe_Diario_2025-02-30.pdf", "daily", civil.Date{}, false},
		{"wrong prefix", "PV_Informe_Semanal_20250527.pdf", "daily", civil.Date{}, false},
		{"trailing text", "PV_Informe_Diario_20250527.pdf.bak", "daily", civil.Date{}, false},
		{"leading text", "copy_PV_Informe_Diario_20250527.pdf", "daily", civil.Date{}, false},
		{"month only is not daily", "PV_Informe_Diario_202505.pdf", "daily", civil.Date{}, false},
		{"monthly full date", "PV_Informe_Mensual_20250531.pdf", "monthly", civil.Date{Year: 2025, Month: time.May, Day: 31}, true},
		{"monthly non leap february", "PV_Informe_Mensual_202502.pdf", "monthly", civil.Date{Year: 2025, Month: time.February, Day: 28}, true},
		{"monthly leap february", "PV_Informe_Mensual_202402.pdf", "monthly", civil.Date{Year: 2024, Month: time.February, Day: 29}, true},
		{"monthly hyphenated", "PV_Informe_Mensual_2024-12.pdf", "monthly", civil.Date{Year: 2024, Month: time.December, Day: 31}, true},
		{"monthly invalid month", "PV_Informe_Mensual_202413.pdf", "monthly", civil.Date{}, false},
		{"monthly zero month", "PV_Informe_Mensual_2024-00.pdf", "monthly", civil.Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patterns := daily
			if tt.patterns == "monthly" {
				patterns = monthly
			}
			got, ok := ParseDate(tt.filename, patterns)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_EquivalentFormats(t *testing.T) {
	for _, c := range Cadences {
		patterns := Patterns(c, DefaultPrefix(c))
		compact, ok := ParseDate(DefaultPrefix(c)+"20250527.pdf", patterns)
		assert.True(t, ok, c)
		hyphen, ok := ParseDate(DefaultPrefix(c)+"2025-05-27.pdf", patterns)
		assert.True(t, ok, c)
		assert.Equal(t, compact, hyphen, c)
	}
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, civil.Date{Year: 2025, Month: time.December, Day: 31}, EndOfMonth(2025, time.December))
	assert.Equal(t, civil.Date{Year: 2025, Month: time.April, Day: 30}, EndOfMonth(2025, time.April))
	assert.Equal(t, civil.Date{Year: 2000, Month: time.February, Day: 29}, EndOfMonth(2000, time.February))
	assert.Equal(t, civil.Date{Year: 1900, Month: time.February, Day: 28}, EndOfMonth(1900, time.February))
}

func TestParseCadence(t *testing.T) {
	c, err := ParseCadence(" Weekly ")
	assert.NoError(t, err)
	assert.Equal(t, Weekly, c)

	_, err = ParseCadence("yearly")
	assert.Error(t, err)
}

func TestGate(t *testing.T) {
	monday := time.Date(2025, time.June, 2, 7, 10, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	firstOfMonth := time.Date(2025, time.July, 1, 7, 15, 0, 0, time.UTC)

	assert.NoError(t, Gate(Daily, tuesday))
	assert.NoError(t, Gate(Weekly, monday))
	assert.ErrorIs(t, Gate(Weekly, tuesday), ErrOutsideSchedule)
	assert.NoError(t, Gate(Monthly, firstOfMonth))
	assert.ErrorIs(t, Gate(Monthly, monday), ErrOutsideSchedule)
}

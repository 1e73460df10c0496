package report

import (
	"regexp"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// Default filename prefixes used by the plant's report generator.
const (
	DailyPrefix   = "PV_Informe_Diario_"
	WeeklyPrefix  = "PV_Informe_Semanal_"
	MonthlyPrefix = "PV_Informe_Mensual_"
)

// DefaultPrefix returns the filename prefix the report generator uses for c.
func DefaultPrefix(c Cadence) string {
	switch c {
	case Weekly:
		return WeeklyPrefix
	case Monthly:
		return MonthlyPrefix
	default:
		return DailyPrefix
	}
}

// Patterns builds the ordered filename patterns for a cadence. Every
// cadence accepts YYYYMMDD and YYYY-MM-DD; monthly reports also accept
// YYYYMM and YYYY-MM. Matching is case-insensitive and anchored to the
// whole filename.
func Patterns(c Cadence, prefix string) []*regexp.Regexp {
	p := `(?i)^` + regexp.QuoteMeta(prefix)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(p + `(\d{8})\.pdf$`),
		regexp.MustCompile(p + `(\d{4}-\d{2}-\d{2})\.pdf$`),
	}
	if c == Monthly {
		patterns = append(patterns,
			regexp.MustCompile(p+`(\d{4})(\d{2})\.pdf$`),
			regexp.MustCompile(p+`(\d{4})-(\d{2})\.pdf$`),
		)
	}
	return patterns
}

// ParseDate extracts the report date from filename. Patterns are tried in
// order and the first one yielding a valid date wins. A single capture group
// is read as YYYYMMDD or YYYY-MM-DD; two groups are read as year and month and
// resolve to the last day of that month.
func ParseDate(filename string, patterns []*regexp.Regexp) (civil.Date, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		if d, ok := dateFromGroups(m[1:]); ok {
			return d, true
		}
	}
	return civil.Date{}, false
}

func dateFromGroups(groups []string) (civil.Date, bool) {
	switch len(groups) {
	case 1:
		var layout string
		switch len(groups[0]) {
		case 8:
			layout = "20060102"
		case 10:
			layout = "2006-01-02"
		default:
			return civil.Date{}, false
		}
		t, err := time.Parse(layout, groups[0])
		if err != nil {
			return civil.Date{}, false
		}
		return civil.DateOf(t), true
	case 2:
		year, err := strconv.Atoi(groups[0])
		if err != nil {
			return civil.Date{}, false
		}
		month, err := strconv.Atoi(groups[1])
		if err != nil || month < 1 || month > 12 {
			return civil.Date{}, false
		}
		return EndOfMonth(year, time.Month(month)), true
	}
	return civil.Date{}, false
}

// EndOfMonth returns the last calendar day of the given month.
func EndOfMonth(year int, month time.Month) civil.Date {
	// Day 0 of the next month normalizes to the last day of this one.
	return civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
}

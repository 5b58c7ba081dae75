package coerce

import (
	"regexp"
	"strconv"
	"time"
)

// DateFormat identifies one of the date layouts the Breeze API emits.
type DateFormat int

const (
	// DateTime is "YYYY-MM-DD HH:MM:SS".
	DateTime DateFormat = iota
	// ISODate is "YYYY-MM-DD".
	ISODate
	// DayMonthYear is "DD-MM-YYYY".
	DayMonthYear
	// MonthDayYear is "MM/DD/YYYY".
	MonthDayYear
)

// Layout returns the time.Format layout used when sending a date in this
// format back to the service.
func (f DateFormat) Layout() string {
	switch f {
	case DateTime:
		return "2006-01-02 15:04:05"
	case ISODate:
		return "2006-01-02"
	case DayMonthYear:
		return "02-01-2006"
	case MonthDayYear:
		return "01/02/2006"
	}
	return time.RFC3339
}

// Format renders t in the given service format.
func Format(t time.Time, f DateFormat) string {
	return t.Format(f.Layout())
}

// Years are four digits, or the literal "00" used by the service's null
// sentinels (00-00-00, 00/00/00). Day and month take one or two digits.
const year = `(\d{4}|00)`

type datePattern struct {
	format DateFormat
	re     *regexp.Regexp
	// capture group positions
	y, m, d int
	clock   bool
}

// Priority order matters: the first pattern whose regex matches decides the
// outcome even if the string is not a valid calendar date.
var datePatterns = []datePattern{
	{format: DateTime, re: regexp.MustCompile(`^` + year + `-(\d{1,2})-(\d{1,2}) (\d{1,2}):(\d{2}):(\d{2})$`), y: 1, m: 2, d: 3, clock: true},
	{format: ISODate, re: regexp.MustCompile(`^` + year + `-(\d{1,2})-(\d{1,2})$`), y: 1, m: 2, d: 3},
	{format: DayMonthYear, re: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-` + year + `$`), y: 3, m: 2, d: 1},
	{format: MonthDayYear, re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/` + year + `$`), y: 3, m: 1, d: 2},
}

// Date converts a date or timestamp string into a time.Time in UTC.
//
// A string that matches one of the recognized layouts but does not name a
// real calendar date (the service's "00-00-00" null sentinels, or 2021-02-30)
// yields nil. Non-strings, empty strings and non-matching strings are
// returned unchanged.
func Date(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		t, ok := p.build(m)
		if !ok {
			return nil
		}
		return t
	}
	return v
}

// DateAs parses s strictly in one format, the way a field with a declared
// type is read. It returns nil for null sentinels and invalid dates.
func DateAs(v any, f DateFormat) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	for _, p := range datePatterns {
		if p.format != f {
			continue
		}
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			return v
		}
		if t, ok := p.build(m); ok {
			return t
		}
		return nil
	}
	return v
}

func (p datePattern) build(m []string) (time.Time, bool) {
	y, _ := strconv.Atoi(m[p.y])
	mo, _ := strconv.Atoi(m[p.m])
	d, _ := strconv.Atoi(m[p.d])
	var hh, mm, ss int
	if p.clock {
		hh, _ = strconv.Atoi(m[4])
		mm, _ = strconv.Atoi(m[5])
		ss, _ = strconv.Atoi(m[6])
		if hh > 23 || mm > 59 || ss > 59 {
			return time.Time{}, false
		}
	}
	if y < 1 || mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, hh, mm, ss, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject those.
	if t.Day() != d || int(t.Month()) != mo {
		return time.Time{}, false
	}
	return t, true
}

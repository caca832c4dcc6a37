package rrecur

import "time"

// civilDate is a calendar date with no attached time zone. All
// arithmetic here is done against time.UTC purely as a Gregorian
// calendar calculator: there is no notion of offset or DST at this
// layer, so UTC never introduces zone ambiguity into date math.
type civilDate struct {
	year  int
	month int // 1..=12
	day   int // 1..=31
}

// civilTime is a time-of-day with no date or zone attached.
type civilTime struct {
	hour, minute, second int
}

// civilDateTime is the anchor/candidate representation used throughout
// the expander and buffer (C2/C3): calendar fields only, promoted to a
// zoned instant only at the edges (zoned.go).
type civilDateTime struct {
	civilDate
	civilTime
}

func newCivilDateTime(t time.Time) civilDateTime {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return civilDateTime{
		civilDate: civilDate{year: y, month: int(m), day: d},
		civilTime: civilTime{hour: h, minute: mi, second: s},
	}
}

// toUTC returns the UTC time.Time with the same calendar fields, used
// only for calendar arithmetic (weekday, year-day, day normalization),
// never exposed as an occurrence.
func (c civilDate) toUTC() time.Time {
	return time.Date(c.year, time.Month(c.month), c.day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func daysInMonth(year, month int) int {
	switch time.Month(month) {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// weekdayOf returns the ISO-ish weekday of d, Monday=0..Sunday=6.
func weekdayOf(d civilDate) Weekday {
	wd := d.toUTC().Weekday() // Sunday=0..Saturday=6
	return Weekday((int(wd) + 6) % 7)
}

// yearDayOf returns the 1-indexed ordinal day of d within its year.
func yearDayOf(d civilDate) int {
	return d.toUTC().YearDay()
}

func firstOfYear(year int) civilDate {
	return civilDate{year: year, month: 1, day: 1}
}

func lastOfYear(year int) civilDate {
	return civilDate{year: year, month: 12, day: 31}
}

func firstOfMonth(year, month int) civilDate {
	return civilDate{year: year, month: month, day: 1}
}

func lastOfMonth(year, month int) civilDate {
	return civilDate{year: year, month: month, day: daysInMonth(year, month)}
}

// dateFromYearDay returns the calendar date for the yday-th day of
// year (1-indexed, as produced/consumed by BYYEARDAY). Returns ok=false
// for an out-of-range (including leap-day-in-non-leap-year) ordinal.
func dateFromYearDay(year, yday int) (civilDate, bool) {
	if yday < 1 || yday > daysInYear(year) {
		return civilDate{}, false
	}
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, yday-1)
	y, m, d := t.Date()
	return civilDate{year: y, month: int(m), day: d}, true
}

// dateFromMonthDay resolves a (possibly negative, end-of-month-relative)
// BYMONTHDAY value against a given year/month. ok is false for a
// nonexistent day (e.g. day 30 in February).
func dateFromMonthDay(year, month, mday int) (civilDate, bool) {
	dim := daysInMonth(year, month)
	day := mday
	if day < 0 {
		day = dim + day + 1
	}
	if day < 1 || day > dim {
		return civilDate{}, false
	}
	return civilDate{year: year, month: month, day: day}, true
}

func addDays(d civilDate, n int) civilDate {
	t := d.toUTC().AddDate(0, 0, n)
	y, m, dd := t.Date()
	return civilDate{year: y, month: int(m), day: dd}
}

func compareDate(a, b civilDate) int {
	switch {
	case a.year != b.year:
		return a.year - b.year
	case a.month != b.month:
		return a.month - b.month
	default:
		return a.day - b.day
	}
}

func compareDateTime(a, b civilDateTime) int {
	if c := compareDate(a.civilDate, b.civilDate); c != 0 {
		return c
	}
	switch {
	case a.hour != b.hour:
		return a.hour - b.hour
	case a.minute != b.minute:
		return a.minute - b.minute
	default:
		return a.second - b.second
	}
}

// nthWeekdayInRange finds the nth (1-indexed, possibly negative for
// "from the end") occurrence of weekday within [from, to] inclusive.
// ok is false when n selects past either end of the range.
func nthWeekdayInRange(from, to civilDate, weekday Weekday, n int) (civilDate, bool) {
	if n == 0 || compareDate(from, to) > 0 {
		return civilDate{}, false
	}
	if n > 0 {
		first := firstWeekdayOnOrAfter(from, weekday)
		cand := addDays(first, (n-1)*7)
		if compareDate(cand, to) > 0 {
			return civilDate{}, false
		}
		return cand, true
	}
	last := lastWeekdayOnOrBefore(to, weekday)
	cand := addDays(last, (n+1)*7)
	if compareDate(cand, from) < 0 {
		return civilDate{}, false
	}
	return cand, true
}

func firstWeekdayOnOrAfter(d civilDate, weekday Weekday) civilDate {
	delta := (int(weekday) - int(weekdayOf(d)) + 7) % 7
	return addDays(d, delta)
}

func lastWeekdayOnOrBefore(d civilDate, weekday Weekday) civilDate {
	delta := (int(weekdayOf(d)) - int(weekday) + 7) % 7
	return addDays(d, -delta)
}

// allWeekdaysInRange returns every date with the given weekday in
// [from, to] inclusive.
func allWeekdaysInRange(from, to civilDate, weekday Weekday) []civilDate {
	var out []civilDate
	d := firstWeekdayOnOrAfter(from, weekday)
	for compareDate(d, to) <= 0 {
		out = append(out, d)
		d = addDays(d, 7)
	}
	return out
}

func pymod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func sortedUniqueInts(vals []int) []int {
	if len(vals) == 0 {
		return nil
	}
	cp := append([]int(nil), vals...)
	insertionSortInts(cp)
	out := cp[:1]
	for _, v := range cp[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func insertionSortInts(vals []int) {
	for i := 1; i < len(vals); i++ {
		v := vals[i]
		j := i - 1
		for j >= 0 && vals[j] > v {
			vals[j+1] = vals[j]
			j--
		}
		vals[j+1] = v
	}
}

func containsInt(set []int, v int) bool {
	lo, hi := 0, len(set)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case set[mid] == v:
			return true
		case set[mid] < v:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return false
}

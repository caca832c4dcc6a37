package rrecur

import (
	"fmt"
	"math"
	"time"
)

const maxRuleYear = 9999
const minRuleYear = -9999

// Rule is an immutable, validated recurrence specification. Build it
// with RuleBuilder; once built it may be shared across goroutines and
// iterated from concurrently (each Iterator owns its own state).
type Rule struct {
	freq      Frequency
	start     time.Time
	hasUntil  bool
	until     time.Time
	hasCount  bool
	count     int
	interval  int
	weekStart Weekday

	byMonth    []int
	byWeekNo   []int
	byYearDay  []int
	byMonthDay []int
	byWeekDay  []WeekdaySpec
	byHour     []int
	byMinute   []int
	bySecond   []int
	bySetPos   []int
}

// Frequency returns the rule's frequency.
func (r *Rule) Frequency() Frequency { return r.freq }

// Start returns the rule's starting zoned instant.
func (r *Rule) Start() time.Time { return r.start }

// Until returns the rule's upper bound and whether one was set.
func (r *Rule) Until() (time.Time, bool) { return r.until, r.hasUntil }

// Count returns the rule's occurrence limit and whether one was set.
// The limit counts every emitted occurrence, including one at Start.
func (r *Rule) Count() (int, bool) { return r.count, r.hasCount }

// Interval returns the rule's interval.
func (r *Rule) Interval() int { return r.interval }

func (r *Rule) anyWeekdays() []Weekday {
	var out []Weekday
	for _, ws := range r.byWeekDay {
		if !ws.Numbered() {
			out = append(out, ws.Day)
		}
	}
	return out
}

func (r *Rule) numberedWeekdays() []WeekdaySpec {
	var out []WeekdaySpec
	for _, ws := range r.byWeekDay {
		if ws.Numbered() {
			out = append(out, ws)
		}
	}
	return out
}

// RuleBuilder accumulates BY* extensions for a Rule and validates them
// in a single pass in Build. Each BY* field offers a variadic form
// (singleton or array) and, for numeric sets, an inclusive-range form;
// both ultimately extend the same backing slice.
type RuleBuilder struct {
	freq      Frequency
	start     time.Time
	hasUntil  bool
	until     time.Time
	hasCount  bool
	count     int
	interval  int
	weekStart Weekday

	byMonth    []int
	byWeekNo   []int
	byYearDay  []int
	byMonthDay []int
	byWeekDay  []WeekdaySpec
	byHour     []int
	byMinute   []int
	bySecond   []int
	bySetPos   []int
}

// NewRuleBuilder starts a builder for freq, anchored at dtstart (whose
// Location determines the zone every occurrence is promoted into).
func NewRuleBuilder(freq Frequency, dtstart time.Time) *RuleBuilder {
	return &RuleBuilder{
		freq:      freq,
		start:     dtstart,
		interval:  1,
		weekStart: Monday,
	}
}

// Interval sets the rule's interval (every Nth period). Values < 1 are
// rejected by Build.
func (b *RuleBuilder) Interval(n int) *RuleBuilder {
	b.interval = n
	return b
}

// Until sets the rule's inclusive upper bound.
func (b *RuleBuilder) Until(t time.Time) *RuleBuilder {
	b.until = t
	b.hasUntil = true
	return b
}

// Count sets the rule's occurrence limit. Mutually exclusive with Until.
func (b *RuleBuilder) Count(n int) *RuleBuilder {
	b.count = n
	b.hasCount = true
	return b
}

// WeekStart sets the weekday that begins a week, for week numbering and
// weekly-frequency boundaries. Defaults to Monday.
func (b *RuleBuilder) WeekStart(w Weekday) *RuleBuilder {
	b.weekStart = w
	return b
}

func extendInts(dst *[]int, vals []int) {
	*dst = append(*dst, vals...)
}

func extendRange(dst *[]int, lo, hi int) {
	for v := lo; v <= hi; v++ {
		*dst = append(*dst, v)
	}
}

// ByMonth adds month values (1..=12).
func (b *RuleBuilder) ByMonth(vals ...int) *RuleBuilder { extendInts(&b.byMonth, vals); return b }

// ByMonthRange adds the inclusive month range [lo, hi].
func (b *RuleBuilder) ByMonthRange(lo, hi int) *RuleBuilder { extendRange(&b.byMonth, lo, hi); return b }

// ByWeekNo adds week-number values (±1..=±53). Only legal with Yearly.
func (b *RuleBuilder) ByWeekNo(vals ...int) *RuleBuilder { extendInts(&b.byWeekNo, vals); return b }

// ByWeekNoRange adds the inclusive week-number range [lo, hi].
func (b *RuleBuilder) ByWeekNoRange(lo, hi int) *RuleBuilder {
	extendRange(&b.byWeekNo, lo, hi)
	return b
}

// ByYearDay adds year-day values (±1..=±366).
func (b *RuleBuilder) ByYearDay(vals ...int) *RuleBuilder { extendInts(&b.byYearDay, vals); return b }

// ByYearDayRange adds the inclusive year-day range [lo, hi].
func (b *RuleBuilder) ByYearDayRange(lo, hi int) *RuleBuilder {
	extendRange(&b.byYearDay, lo, hi)
	return b
}

// ByMonthDay adds month-day values (±1..=±31).
func (b *RuleBuilder) ByMonthDay(vals ...int) *RuleBuilder {
	extendInts(&b.byMonthDay, vals)
	return b
}

// ByMonthDayRange adds the inclusive month-day range [lo, hi].
func (b *RuleBuilder) ByMonthDayRange(lo, hi int) *RuleBuilder {
	extendRange(&b.byMonthDay, lo, hi)
	return b
}

// ByWeekDay adds weekday specifiers, e.g. Day(Monday) or Friday.Nth(-1).
func (b *RuleBuilder) ByWeekDay(specs ...WeekdaySpec) *RuleBuilder {
	b.byWeekDay = append(b.byWeekDay, specs...)
	return b
}

// ByHour adds hour values (0..=23).
func (b *RuleBuilder) ByHour(vals ...int) *RuleBuilder { extendInts(&b.byHour, vals); return b }

// ByHourRange adds the inclusive hour range [lo, hi].
func (b *RuleBuilder) ByHourRange(lo, hi int) *RuleBuilder { extendRange(&b.byHour, lo, hi); return b }

// ByMinute adds minute values (0..=59).
func (b *RuleBuilder) ByMinute(vals ...int) *RuleBuilder { extendInts(&b.byMinute, vals); return b }

// ByMinuteRange adds the inclusive minute range [lo, hi].
func (b *RuleBuilder) ByMinuteRange(lo, hi int) *RuleBuilder {
	extendRange(&b.byMinute, lo, hi)
	return b
}

// BySecond adds second values (0..=59).
func (b *RuleBuilder) BySecond(vals ...int) *RuleBuilder { extendInts(&b.bySecond, vals); return b }

// BySecondRange adds the inclusive second range [lo, hi].
func (b *RuleBuilder) BySecondRange(lo, hi int) *RuleBuilder {
	extendRange(&b.bySecond, lo, hi)
	return b
}

// BySetPos adds set-position selectors (±1..=±366). Requires at least
// one other BY* set to be non-empty.
func (b *RuleBuilder) BySetPos(vals ...int) *RuleBuilder { extendInts(&b.bySetPos, vals); return b }

// BySetPosRange adds the inclusive set-position range [lo, hi].
func (b *RuleBuilder) BySetPosRange(lo, hi int) *RuleBuilder {
	extendRange(&b.bySetPos, lo, hi)
	return b
}

// frequencyStepSeconds returns the fixed-length span of one frequency
// step, in seconds, for frequencies whose period is constant. Yearly
// and Monthly have no fixed span (a year or month's length varies, and
// addCalendarUnits advances them by field arithmetic, never duration
// arithmetic), so they report ok == false and are exempt from the
// duration-overflow check below.
func frequencyStepSeconds(freq Frequency) (step int64, ok bool) {
	switch freq {
	case Weekly:
		return 7 * 24 * 3600, true
	case Daily:
		return 24 * 3600, true
	case Hourly:
		return 3600, true
	case Minutely:
		return 60, true
	case Secondly:
		return 1, true
	default:
		return 0, false
	}
}

// checkFrequencyStepOverflow reports DurationOverflow when interval *
// frequency-unit cannot be represented as a time.Duration, per spec.
func checkFrequencyStepOverflow(freq Frequency, interval int) *ValidationError {
	step, ok := frequencyStepSeconds(freq)
	if !ok {
		return nil
	}
	totalSeconds := step * int64(interval)
	if interval != 0 && totalSeconds/int64(interval) != step {
		return errOverflow(fmt.Errorf("interval %d * %ds frequency step overflows int64 seconds", interval, step))
	}
	if totalSeconds > math.MaxInt64/int64(time.Second) {
		return errOverflow(fmt.Errorf("%ds frequency span overflows time.Duration", totalSeconds))
	}
	return nil
}

type boundsCheck struct {
	field     string
	values    []int
	min, max  int
	plusMinus bool
}

func checkBounds(b boundsCheck) *ValidationError {
	for _, v := range b.values {
		inPositive := v >= b.min && v <= b.max
		inNegative := b.plusMinus && v <= -b.min && v >= -b.max
		if !inPositive && !inNegative {
			return errOutOfRange(b.field, v, b.min, b.max, b.plusMinus)
		}
	}
	return nil
}

// Build validates the accumulated options in one pass and returns an
// immutable Rule, or the first ValidationError encountered.
func (b *RuleBuilder) Build() (*Rule, error) {
	interval := b.interval
	if interval < 1 {
		return nil, errInterval(interval)
	}
	if b.hasCount && b.hasUntil {
		return nil, errCountAndUntil()
	}
	if err := checkFrequencyStepOverflow(b.freq, interval); err != nil {
		return nil, err
	}

	checks := []boundsCheck{
		{"Bysecond", b.bySecond, 0, 59, false},
		{"Byminute", b.byMinute, 0, 59, false},
		{"Byhour", b.byHour, 0, 23, false},
		{"Bymonthday", b.byMonthDay, 1, 31, true},
		{"Byyearday", b.byYearDay, 1, 366, true},
		{"Byweekno", b.byWeekNo, 1, 53, true},
		{"Bymonth", b.byMonth, 1, 12, false},
		{"Bysetpos", b.bySetPos, 1, 366, true},
	}
	for _, c := range checks {
		if err := checkBounds(c); err != nil {
			return nil, err
		}
	}

	if len(b.byWeekNo) > 0 && b.freq != Yearly {
		return nil, errFreqConflict("Byweekno")
	}
	if len(b.byYearDay) > 0 && (b.freq == Monthly || b.freq == Weekly || b.freq == Daily) {
		return nil, errFreqConflict("Byyearday")
	}
	if len(b.byMonthDay) > 0 && b.freq == Weekly {
		return nil, errFreqConflict("Bymonthday")
	}

	yearlyScope := b.freq == Yearly && len(b.byMonth) == 0
	monthlyScope := b.freq == Monthly || (b.freq == Yearly && len(b.byMonth) > 0)

	for _, ws := range b.byWeekDay {
		if !ws.Numbered() {
			continue
		}
		switch {
		case b.freq == Yearly && len(b.byWeekNo) > 0:
			return nil, errNumberedMisuse("Byday (numbered, with Byweekno)")
		case b.freq != Yearly && b.freq != Monthly:
			return nil, errNumberedMisuse("Byday (numbered)")
		case yearlyScope:
			if ws.N < -53 || ws.N > 53 {
				return nil, errNumberedRange(ws.N, 1, 53)
			}
		case monthlyScope:
			if ws.N < -5 || ws.N > 5 {
				return nil, errNumberedRange(ws.N, 1, 5)
			}
		}
	}

	if len(b.bySetPos) > 0 {
		anchored := len(b.byMonth) > 0 || len(b.byWeekNo) > 0 || len(b.byYearDay) > 0 ||
			len(b.byMonthDay) > 0 || len(b.byWeekDay) > 0 || len(b.byHour) > 0 ||
			len(b.byMinute) > 0 || len(b.bySecond) > 0
		if !anchored {
			return nil, errSetPosWithoutAnchor()
		}
	}

	start := b.start.Truncate(time.Second)

	r := &Rule{
		freq:      b.freq,
		start:     start,
		hasUntil:  b.hasUntil,
		hasCount:  b.hasCount,
		count:     b.count,
		interval:  interval,
		weekStart: b.weekStart,

		byMonth:    sortedUniqueInts(b.byMonth),
		byWeekNo:   sortedUniqueInts(b.byWeekNo),
		byYearDay:  sortedUniqueInts(b.byYearDay),
		byMonthDay: sortedUniqueInts(b.byMonthDay),
		byWeekDay:  canonicalWeekdays(b.byWeekDay),
		byHour:     sortedUniqueInts(b.byHour),
		byMinute:   sortedUniqueInts(b.byMinute),
		bySecond:   sortedUniqueInts(b.bySecond),
		bySetPos:   sortedUniqueInts(b.bySetPos),
	}
	if b.hasUntil {
		r.until = b.until.Truncate(time.Second)
	}

	applyDefaults(r)

	return r, nil
}

// applyDefaults mirrors RFC 5545's implicit selectors: when no BY* rule
// picks a day within the period, DTSTART's own date/time components are
// used, so e.g. a bare FREQ=MONTHLY repeats on DTSTART's day of month.
func applyDefaults(r *Rule) {
	noDateSelector := len(r.byWeekNo) == 0 && len(r.byYearDay) == 0 &&
		len(r.byMonthDay) == 0 && len(r.byWeekDay) == 0

	if noDateSelector {
		switch r.freq {
		case Yearly:
			if len(r.byMonth) == 0 {
				r.byMonth = []int{int(r.start.Month())}
			}
			r.byMonthDay = []int{r.start.Day()}
		case Monthly:
			r.byMonthDay = []int{r.start.Day()}
		case Weekly:
			r.byWeekDay = []WeekdaySpec{Day(goWeekdayToRRecur(r.start.Weekday()))}
		}
	}

	if len(r.byHour) == 0 && r.freq < Hourly {
		r.byHour = []int{r.start.Hour()}
	}
	if len(r.byMinute) == 0 && r.freq < Minutely {
		r.byMinute = []int{r.start.Minute()}
	}
	if len(r.bySecond) == 0 && r.freq < Secondly {
		r.bySecond = []int{r.start.Second()}
	}
}

func goWeekdayToRRecur(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

func canonicalWeekdays(specs []WeekdaySpec) []WeekdaySpec {
	if len(specs) == 0 {
		return nil
	}
	cp := append([]WeekdaySpec(nil), specs...)
	insertionSortWeekdays(cp)
	out := cp[:1]
	for _, v := range cp[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func weekdaySpecLess(a, b WeekdaySpec) bool {
	if a.Numbered() != b.Numbered() {
		return !a.Numbered() // Any before Numbered
	}
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	return a.N < b.N
}

func insertionSortWeekdays(specs []WeekdaySpec) {
	for i := 1; i < len(specs); i++ {
		v := specs[i]
		j := i - 1
		for j >= 0 && weekdaySpecLess(v, specs[j]) {
			specs[j+1] = specs[j]
			j--
		}
		specs[j+1] = v
	}
}

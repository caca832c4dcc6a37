package rrecur

import "time"

// zoned.go resolves a civil (zone-naive) datetime into the zoned
// instant(s) it denotes in a given time.Location, classifying the
// result as unambiguous, a gap (the local time never occurred), or a
// fold (the local time occurred twice, e.g. during a "fall back"
// transition). Go's time.Location does not expose ambiguity directly;
// this uses the documented Time.ZoneBounds API to probe the offsets in
// effect on either side of the zone transition nearest the candidate.

type zoneKind int

const (
	zoneUnambiguous zoneKind = iota
	zoneGap
	zoneFold
)

// resolveCivil returns how c is represented in loc. For zoneUnambiguous,
// before == after. For zoneFold, before is chronologically earlier. For
// zoneGap, both are the zero Time and must not be used.
func resolveCivil(loc *time.Location, c civilDateTime) (kind zoneKind, before, after time.Time) {
	guess := time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, c.second, 0, loc)

	gy, gm, gd := guess.Date()
	gh, gmin, gs := guess.Clock()
	if gy != c.year || int(gm) != c.month || gd != c.day || gh != c.hour || gmin != c.minute || gs != c.second {
		return zoneGap, time.Time{}, time.Time{}
	}

	_, selfOffset := guess.Zone()
	offsets := []int{selfOffset}

	start, end := guess.ZoneBounds()
	if !start.IsZero() {
		_, off := start.Add(-time.Second).Zone()
		offsets = appendUniqueOffset(offsets, off)
	}
	if !end.IsZero() {
		_, off := end.Zone()
		offsets = appendUniqueOffset(offsets, off)
	}

	wallUTC := time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, c.second, 0, time.UTC)

	var matches []time.Time
	for _, off := range offsets {
		candidate := wallUTC.Add(-time.Duration(off) * time.Second).In(loc)
		cy, cm, cd := candidate.Date()
		ch, cmin, cs := candidate.Clock()
		if cy == c.year && int(cm) == c.month && cd == c.day && ch == c.hour && cmin == c.minute && cs == c.second {
			matches = appendUniqueInstant(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		// Unreachable: selfOffset always reconstructs guess itself.
		return zoneUnambiguous, guess, guess
	case 1:
		return zoneUnambiguous, matches[0], matches[0]
	default:
		sortTimesAscending(matches)
		return zoneFold, matches[0], matches[len(matches)-1]
	}
}

func appendUniqueOffset(offsets []int, off int) []int {
	for _, o := range offsets {
		if o == off {
			return offsets
		}
	}
	return append(offsets, off)
}

func appendUniqueInstant(times []time.Time, t time.Time) []time.Time {
	for _, existing := range times {
		if existing.Equal(t) {
			return times
		}
	}
	return append(times, t)
}

func sortTimesAscending(times []time.Time) {
	for i := 1; i < len(times); i++ {
		v := times[i]
		j := i - 1
		for j >= 0 && times[j].After(v) {
			times[j+1] = times[j]
			j--
		}
		times[j+1] = v
	}
}

package rrecur

import "time"

// buffer.go is the recurrence set buffer (C3): it takes one interval's
// worth of civil candidates from C2, applies BYSETPOS over the interval's
// full candidate set, filters the survivors against start, promotes them
// to zoned instants, and hands the iterator a small ascending queue to
// drain. UNTIL is intentionally not applied here; it is checked per
// popped instant so a breach can permanently halt the iterator.

type recurrenceBuffer struct {
	zoned []time.Time
}

// buildBuffer sorts, set-positions, start-filters, and promotes one
// interval's already-expanded civil candidates.
func buildBuffer(r *Rule, loc *time.Location, candidates []civilDateTime) *recurrenceBuffer {
	civil := sortAndDedupeCivil(candidates)

	// BYSETPOS positions are resolved over the interval's full candidate
	// set, per RFC 5545's own BYSETPOS example (FREQ=MONTHLY;BYDAY=TU,WE,
	// TH;BYSETPOS=3 selects September 2, 3, *4* as positions 1-3, even
	// though 2 and 3 precede DTSTART=September 4): start-filtering is
	// applied after position selection, not before it.
	if len(r.bySetPos) > 0 {
		civil = applyBySetPos(civil, r.bySetPos)
	}
	civil = filterCivilOnOrAfter(civil, newCivilDateTime(r.start.In(loc)))

	zoned := make([]time.Time, 0, len(civil))
	for _, c := range civil {
		kind, before, after := resolveCivil(loc, c)
		switch kind {
		case zoneGap:
			continue
		case zoneFold:
			zoned = append(zoned, before, after)
		default:
			zoned = append(zoned, before)
		}
	}
	sortTimesAscending(zoned)
	zoned = dedupeTimes(zoned)

	return &recurrenceBuffer{zoned: zoned}
}

func (b *recurrenceBuffer) empty() bool {
	return len(b.zoned) == 0
}

// pop removes and returns the earliest remaining instant.
func (b *recurrenceBuffer) pop() (time.Time, bool) {
	if len(b.zoned) == 0 {
		return time.Time{}, false
	}
	t := b.zoned[0]
	b.zoned = b.zoned[1:]
	return t, true
}

// clear discards all remaining instants, used on a permanent until
// breach: once one candidate exceeds until, no later candidate in this
// or any future interval can be valid (candidates are chronological).
func (b *recurrenceBuffer) clear() {
	b.zoned = nil
}

// filterCivilOnOrAfter drops candidates earlier than start. It runs
// after BYSETPOS position resolution, not before. Until filtering
// happens later still, at drain time, on the zoned form.
func filterCivilOnOrAfter(civil []civilDateTime, start civilDateTime) []civilDateTime {
	out := civil[:0]
	for _, c := range civil {
		if compareDateTime(c, start) >= 0 {
			out = append(out, c)
		}
	}
	return out
}

// applyBySetPos resolves BYSETPOS positions against the interval's full
// ascending, deduplicated civil candidate set (not yet start-filtered).
func applyBySetPos(civil []civilDateTime, positions []int) []civilDateTime {
	n := len(civil)
	if n == 0 {
		return nil
	}

	var picked []civilDateTime
	for _, p := range positions {
		idx := p
		if idx < 0 {
			idx = n + idx + 1
		}
		if idx < 1 || idx > n {
			continue
		}
		picked = append(picked, civil[idx-1])
	}
	return sortAndDedupeCivil(picked)
}

func sortAndDedupeCivil(candidates []civilDateTime) []civilDateTime {
	if len(candidates) == 0 {
		return nil
	}
	cp := append([]civilDateTime(nil), candidates...)
	insertionSortCivil(cp)
	out := cp[:1]
	for _, c := range cp[1:] {
		if compareDateTime(c, out[len(out)-1]) != 0 {
			out = append(out, c)
		}
	}
	return out
}

func insertionSortCivil(vals []civilDateTime) {
	for i := 1; i < len(vals); i++ {
		v := vals[i]
		j := i - 1
		for j >= 0 && compareDateTime(vals[j], v) > 0 {
			vals[j+1] = vals[j]
			j--
		}
		vals[j+1] = v
	}
}

func dedupeTimes(times []time.Time) []time.Time {
	if len(times) == 0 {
		return nil
	}
	out := times[:1]
	for _, t := range times[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}

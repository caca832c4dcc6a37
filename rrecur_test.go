package rrecur

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRandomRulesMonotonicAndBounded is a hand-rolled property check: for
// a spread of random-but-plausible rules, every emitted sequence must be
// non-decreasing, never before start, and never after until when set.
func TestRandomRulesMonotonicAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	freqs := []Frequency{Yearly, Monthly, Weekly, Daily, Hourly}

	for trial := 0; trial < 200; trial++ {
		freq := freqs[rng.Intn(len(freqs))]
		start := time.Date(
			2000+rng.Intn(40), time.Month(1+rng.Intn(12)), 1+rng.Intn(28),
			rng.Intn(24), rng.Intn(60), rng.Intn(60), 0, time.UTC,
		)
		b := NewRuleBuilder(freq, start).Interval(1 + rng.Intn(3))

		until := start.AddDate(0, 0, 30+rng.Intn(700))
		b.Until(until)

		r, err := b.Build()
		if err != nil {
			t.Fatalf("trial %d: unexpected Build error: %v", trial, err)
		}

		got := r.All(500)
		for i, inst := range got {
			if inst.Before(start) {
				t.Fatalf("trial %d: occurrence %v precedes start %v", trial, inst, start)
			}
			if inst.After(until) {
				t.Fatalf("trial %d: occurrence %v exceeds until %v", trial, inst, until)
			}
			if i > 0 && inst.Before(got[i-1]) {
				t.Fatalf("trial %d: occurrence %v out of order after %v", trial, inst, got[i-1])
			}
		}
	}
}

// TestConcurrentIteratorsShareRuleSafely races many goroutines, each
// driving its own Iterator derived from one shared *Rule, and asserts
// every goroutine sees the identical sequence. A Rule is immutable
// after Build(), and each Iterator owns its own state, so concurrent
// iteration must not corrupt or cross-contaminate results.
func TestConcurrentIteratorsShareRuleSafely(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	r, err := NewRuleBuilder(Daily, start).Count(200).Build()
	require.NoError(t, err)

	want := r.All(0)
	require.NotEmpty(t, want)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([][]time.Time, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.All(0)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.Equalf(t, want, got, "goroutine %d produced a divergent sequence", i)
	}
}

func TestValidationIsComplete(t *testing.T) {
	start := time.Now()
	cases := []struct {
		name string
		b    *RuleBuilder
	}{
		{"bad interval", NewRuleBuilder(Daily, start).Interval(0).Interval(-2)},
		{"bad bymonth", NewRuleBuilder(Yearly, start).ByMonth(0)},
		{"byweekno on monthly", NewRuleBuilder(Monthly, start).ByWeekNo(1)},
		{"byyearday on weekly", NewRuleBuilder(Weekly, start).ByYearDay(1)},
		{"bymonthday on weekly", NewRuleBuilder(Weekly, start).ByMonthDay(1)},
		{"numbered byday on daily", NewRuleBuilder(Daily, start).ByWeekDay(Monday.Nth(1))},
		{"bysetpos alone", NewRuleBuilder(Daily, start).BySetPos(1)},
		{"count and until", NewRuleBuilder(Daily, start).Count(1).Until(start)},
		{"hourly interval overflows duration", NewRuleBuilder(Hourly, start).Interval(math.MaxInt32)},
	}
	for _, c := range cases {
		if _, err := c.b.Build(); err == nil {
			t.Errorf("%s: expected a ValidationError, got nil", c.name)
		} else if _, ok := err.(*ValidationError); !ok {
			t.Errorf("%s: expected *ValidationError, got %T", c.name, err)
		}
	}
}

package rrecur

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultsMonthly(t *testing.T) {
	start := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	r, err := NewRuleBuilder(Monthly, start).Build()
	require.NoError(t, err)
	assert.Equal(t, []int{31}, r.byMonthDay)
	assert.Equal(t, []int{9}, r.byHour)
	assert.Equal(t, []int{0}, r.byMinute)
	assert.Equal(t, []int{0}, r.bySecond)
}

func TestBuildDefaultsWeekly(t *testing.T) {
	start := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC) // a Wednesday
	r, err := NewRuleBuilder(Weekly, start).Build()
	require.NoError(t, err)
	require.Len(t, r.byWeekDay, 1)
	assert.Equal(t, Wednesday, r.byWeekDay[0].Day)
	assert.False(t, r.byWeekDay[0].Numbered())
}

func TestBuildRejectsInvalidInterval(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Daily, start).Interval(-1).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, InvalidInterval, verr.Kind)
}

func TestBuildRejectsOutOfRangeByMonth(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Yearly, start).ByMonth(13).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, OutOfRangeByValue, verr.Kind)
	assert.Equal(t, "Bymonth", verr.Field)
}

func TestBuildRejectsByWeekNoOnNonYearly(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Monthly, start).ByWeekNo(10).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FrequencyRuleConflict, verr.Kind)
}

func TestBuildRejectsByMonthDayOnWeekly(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Weekly, start).ByMonthDay(15).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FrequencyRuleConflict, verr.Kind)
}

func TestBuildRejectsNumberedWeekdayOnDaily(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Daily, start).ByWeekDay(Monday.Nth(2)).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, NumberedWeekdayMisuse, verr.Kind)
}

func TestBuildRejectsNumberedWeekdayOutOfMonthlyRange(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Monthly, start).ByWeekDay(Monday.Nth(6)).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, NumberedWeekdayOutOfRange, verr.Kind)
}

func TestBuildRejectsBySetPosWithoutAnchor(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Daily, start).BySetPos(1).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, SetPositionWithoutAnchor, verr.Kind)
}

func TestBuildRejectsCountAndUntilTogether(t *testing.T) {
	start := time.Now()
	_, err := NewRuleBuilder(Daily, start).Count(5).Until(start.AddDate(0, 1, 0)).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, CountAndUntilConflict, verr.Kind)
}

func TestCanonicalWeekdaysDedup(t *testing.T) {
	specs := canonicalWeekdays([]WeekdaySpec{Day(Friday), Day(Monday), Day(Monday), Friday.Nth(-1)})
	require.Len(t, specs, 3)
	assert.False(t, specs[0].Numbered())
	assert.Equal(t, Monday, specs[0].Day)
	assert.False(t, specs[1].Numbered())
	assert.Equal(t, Friday, specs[1].Day)
	assert.True(t, specs[2].Numbered())
}

package rrecur

import "fmt"

// ErrKind classifies a Rule validation failure. It is exported so
// callers can branch on failure kind with errors.As and a type switch,
// rather than string-matching Error().
type ErrKind int

const (
	// InvalidInterval: interval < 1.
	InvalidInterval ErrKind = iota
	// OutOfRangeByValue: a BY* value falls outside its permitted range.
	OutOfRangeByValue
	// FrequencyRuleConflict: a BY* set is used with a frequency that disallows it.
	FrequencyRuleConflict
	// NumberedWeekdayMisuse: a Numbered weekday specifier used where disallowed.
	NumberedWeekdayMisuse
	// NumberedWeekdayOutOfRange: a Numbered weekday's N is outside the active scope's bounds.
	NumberedWeekdayOutOfRange
	// SetPositionWithoutAnchor: BYSETPOS given without any other BY* selector.
	SetPositionWithoutAnchor
	// DurationOverflow: interval * frequency-unit cannot be represented.
	DurationOverflow
	// CountAndUntilConflict: both COUNT and UNTIL were set on the same rule.
	CountAndUntilConflict
)

func (k ErrKind) String() string {
	switch k {
	case InvalidInterval:
		return "InvalidInterval"
	case OutOfRangeByValue:
		return "OutOfRangeByValue"
	case FrequencyRuleConflict:
		return "FrequencyRuleConflict"
	case NumberedWeekdayMisuse:
		return "NumberedWeekdayMisuse"
	case NumberedWeekdayOutOfRange:
		return "NumberedWeekdayOutOfRange"
	case SetPositionWithoutAnchor:
		return "SetPositionWithoutAnchor"
	case DurationOverflow:
		return "DurationOverflow"
	case CountAndUntilConflict:
		return "CountAndUntilConflict"
	default:
		return "Unknown"
	}
}

// ValidationError reports why RuleBuilder.Build rejected a rule. It is
// the only failure mode of the builder: build() performs one validation
// pass and stops at the first violation it finds.
type ValidationError struct {
	Kind ErrKind

	// Field names the offending BY* set, e.g. "Bymonthday". Empty when
	// the error does not pertain to a single field (e.g. InvalidInterval).
	Field string

	// Value is the offending input value, when applicable.
	Value int

	// Min and Max describe the permitted range for OutOfRangeByValue and
	// NumberedWeekdayOutOfRange errors. When the range also permits the
	// symmetric negative span (e.g. BYMONTHDAY's -31..=-1), Min/Max
	// describe the positive span only and the message notes the mirror.
	Min, Max int

	// PlusMinus indicates the permitted range mirrors into negative
	// values, e.g. BYYEARDAY permits 1..=366 or -366..=-1.
	PlusMinus bool

	cause error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidInterval:
		return fmt.Sprintf("interval must be >= 1, got %d", e.Value)
	case OutOfRangeByValue:
		if e.PlusMinus {
			return fmt.Sprintf("%s value %d must be in %d..=%d or -%d..=-%d", e.Field, e.Value, e.Min, e.Max, e.Min, e.Max)
		}
		return fmt.Sprintf("%s value %d must be in %d..=%d", e.Field, e.Value, e.Min, e.Max)
	case FrequencyRuleConflict:
		return fmt.Sprintf("%s is not allowed with this frequency", e.Field)
	case NumberedWeekdayMisuse:
		return fmt.Sprintf("numbered weekday is not allowed here: %s", e.Field)
	case NumberedWeekdayOutOfRange:
		return fmt.Sprintf("numbered weekday N=%d must be in %d..=%d or -%d..=-%d", e.Value, e.Min, e.Max, e.Min, e.Max)
	case SetPositionWithoutAnchor:
		return "bysetpos requires at least one other BY* rule to select from"
	case DurationOverflow:
		if e.cause != nil {
			return fmt.Sprintf("interval * frequency step overflows: %v", e.cause)
		}
		return "interval * frequency step overflows"
	case CountAndUntilConflict:
		return "count and until are mutually exclusive"
	default:
		return "invalid rule"
	}
}

// Unwrap exposes a wrapped cause, if any, for errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

func errOutOfRange(field string, value, min, max int, plusMinus bool) *ValidationError {
	return &ValidationError{Kind: OutOfRangeByValue, Field: field, Value: value, Min: min, Max: max, PlusMinus: plusMinus}
}

func errFreqConflict(field string) *ValidationError {
	return &ValidationError{Kind: FrequencyRuleConflict, Field: field}
}

func errNumberedMisuse(field string) *ValidationError {
	return &ValidationError{Kind: NumberedWeekdayMisuse, Field: field}
}

func errNumberedRange(n, min, max int) *ValidationError {
	return &ValidationError{Kind: NumberedWeekdayOutOfRange, Value: n, Min: min, Max: max}
}

func errSetPosWithoutAnchor() *ValidationError {
	return &ValidationError{Kind: SetPositionWithoutAnchor}
}

func errInterval(interval int) *ValidationError {
	return &ValidationError{Kind: InvalidInterval, Value: interval}
}

func errOverflow(cause error) *ValidationError {
	return &ValidationError{Kind: DurationOverflow, cause: cause}
}

func errCountAndUntil() *ValidationError {
	return &ValidationError{Kind: CountAndUntilConflict}
}

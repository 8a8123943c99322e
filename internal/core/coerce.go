package core

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// FieldKind selects the coercion applied to a field before it is written or compared.
type FieldKind int

const (
	// KindAny stores the value as received.
	KindAny FieldKind = iota
	// KindString stores the value as a string.
	KindString
	// KindNumber stores the value as a float64; numeric strings are parsed.
	KindNumber
	// KindDate stores the value as a UTC timestamp.
	KindDate
)

// coerce converts a raw request value to the stored representation of kind.
func coerce(field string, kind FieldKind, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch kind {
	case KindString:
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, validationError("Field %q must be a string.", field)
		}
		return s, nil
	case KindNumber:
		return coerceNumber(field, value)
	case KindDate:
		return coerceDate(field, value)
	default:
		return value, nil
	}
}

func coerceNumber(field string, value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, validationError("Field %q must be numeric.", field)
	}
	return f, nil
}

// coerceDate accepts timestamps, date strings in the formats cast understands
// (RFC3339, YYYY-MM-DD and friends) and numbers as milliseconds since the epoch.
func coerceDate(field string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return nil, validationError("Field %q must be a valid date.", field)
		}
		return time.UnixMilli(ms).UTC(), nil
	case string:
		t, err := cast.ToTimeE(strings.TrimSpace(v))
		if err != nil {
			return nil, validationError("Field %q must be a valid date.", field)
		}
		return t.UTC(), nil
	}
	return nil, validationError("Field %q must be a valid date.", field)
}

// isBlank reports whether a create payload value counts as not supplied.
func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// displayValue renders a key value for messages. Midnight UTC timestamps print as dates.
func displayValue(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		t = t.UTC()
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	}
	return cast.ToString(v)
}

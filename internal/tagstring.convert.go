package internal

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// AnyToString converts any value to its string representation
func AnyToString(v any) string {
	if v == nil {
		return StringValueEmpty
	}
	switch val := v.(type) {
	case string:
		return val
	case Expanded:
		return string(val)
	case []byte:
		return string(val)
	case bool:
		if val {
			return StringValueTrue
		}
		return StringValueFalse
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, IntBase10)
	case float64:
		return strconv.FormatFloat(val, FloatFormatFlag, FloatPrecisionAll, FloatBitSize64)
	case fmt.Stringer:
		if IsNilPointer(v) {
			return StringValueEmpty
		}
		return val.String()
	case error:
		if IsNilPointer(v) {
			return StringValueEmpty
		}
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// IsNilPointer reports whether v is a typed nil: a nil pointer, map, slice,
// func, chan or interface stored in a non-nil interface.
func IsNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// AnyToFloat converts numeric values and numeric strings to float64
func AnyToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, FloatBitSize64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		case reflect.Float32, reflect.Float64:
			return rv.Float(), true
		default:
			return 0, false
		}
	}
}

// AnyToInt converts numeric values and numeric strings to int64
func AnyToInt(v any) (int64, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseInt(s, IntBase10, 64)
		if err == nil {
			return n, true
		}
	}
	f, ok := AnyToFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// AnyToTime converts time values, unix seconds and date strings to time.Time
func AnyToTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		t, err := dateparse.ParseAny(val)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		if n, ok := AnyToInt(v); ok {
			return time.Unix(n, 0).UTC(), true
		}
		return time.Time{}, false
	}
}

// IsTruthy determines the truthiness of a value
// Truthiness rules:
// - nil -> false
// - bool -> value
// - string -> len(s) > 0 and not "false"
// - int/float -> n != 0
// - slice/map -> len(x) > 0
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return len(val) > 0 && val != StringValueFalse
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len() > 0
		case reflect.Ptr, reflect.Interface:
			return !rv.IsNil()
		default:
			return true
		}
	}
}

// IsEmpty checks if a value is empty
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return len(val) == 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
			return rv.Len() == 0
		case reflect.Ptr, reflect.Interface:
			return rv.IsNil()
		default:
			return false
		}
	}
}

// Package validate holds the pure input validation helpers used by request
// types before any state-changing operation.
package validate

import (
	"reflect"
	"strconv"
	"strings"

	dErrors "reclaim/pkg/domain-errors"
)

// RequireFields checks that every named field is present and non-empty in
// data. It reports all missing fields in one error rather than stopping at
// the first.
func RequireFields(data map[string]any, names ...string) error {
	var missing []string
	for _, name := range names {
		v, ok := data[name]
		if !ok || IsEmpty(v) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// RequireInt64 coerces value into an integer, rejecting anything that is not
// a whole number.
func RequireInt64(value any, field string) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		// JSON numbers decode as float64; accept only whole values.
		if v != float64(int64(v)) {
			return 0, dErrors.New(dErrors.CodeValidation, field+" must be an integer")
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, dErrors.New(dErrors.CodeValidation, field+" must be an integer")
		}
		return n, nil
	default:
		return 0, dErrors.New(dErrors.CodeValidation, field+" must be an integer")
	}
}

// RequireOneOf checks that value is one of the allowed values.
func RequireOneOf(value, field string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeValidation, "invalid "+field)
}

// IsEmpty reports whether v is nil, an empty string, or an empty collection.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

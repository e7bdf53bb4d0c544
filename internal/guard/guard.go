// Package guard performs defensive structural validation of tool parameters
// before any remote call is attempted. Strings anywhere in the input tree are
// tested against a fixed set of danger patterns; size and arity budgets bound
// the work. The scan is heuristic — it trades false positives for not letting
// the enumerated pattern classes through.
package guard

import "encoding/json"

// Budgets for a single parameter bag.
const (
	MaxPayloadBytes = 500_000
	MaxTopLevelKeys = 100
)

// Validate checks an input value against the size, arity, and pattern
// constraints. nil passes. Maps are scanned over both keys and values, slices
// per element.
func Validate(v any) error {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return &InvalidInputError{}
	}
	if len(data) > MaxPayloadBytes {
		return &PayloadTooLargeError{Size: len(data), Max: MaxPayloadBytes}
	}

	// Normalize to the JSON object model so structs, maps, and slices are
	// walked uniformly.
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return &InvalidInputError{}
	}

	if m, ok := tree.(map[string]any); ok && len(m) > MaxTopLevelKeys {
		return &TooManyParamsError{Count: len(m), Max: MaxTopLevelKeys}
	}

	return scan(tree)
}

// scan walks a decoded JSON tree and rejects on the first pattern match.
func scan(v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if cat, ok := match(t); ok {
			return &InvalidInputError{Category: cat}
		}
	case []any:
		for _, el := range t {
			if err := scan(el); err != nil {
				return err
			}
		}
	case map[string]any:
		for k, val := range t {
			if cat, ok := match(k); ok {
				return &InvalidInputError{Category: cat}
			}
			if err := scan(val); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateTypes checks each declared key that is present in params against
// its expected primitive type names ("string", "number", "boolean", "object",
// "array", "null"). Keys absent from params are skipped; keys absent from
// expected are ignored.
func ValidateTypes(params map[string]any, expected map[string][]string) error {
	for field, types := range expected {
		v, ok := params[field]
		if !ok {
			continue
		}
		actual := TypeName(v)
		if !containsType(types, actual) {
			return &ParamTypeError{Field: field, Expected: types, Actual: actual}
		}
	}
	return nil
}

// TypeName returns the JSON type name of a decoded value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func containsType(types []string, name string) bool {
	for _, t := range types {
		if t == name {
			return true
		}
	}
	return false
}

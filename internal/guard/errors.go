package guard

import (
	"fmt"
	"strings"
)

// InvalidInputError rejects input that matched a danger pattern. The message
// is deliberately vague so callers learn nothing about the matcher set; the
// category is kept for internal diagnostics only.
type InvalidInputError struct {
	Category Category
}

func (e *InvalidInputError) Error() string {
	return "invalid input: potentially unsafe content detected"
}

// PayloadTooLargeError rejects input whose serialized form exceeds the byte
// budget.
type PayloadTooLargeError struct {
	Size int
	Max  int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload too large: %d bytes exceeds limit of %d", e.Size, e.Max)
}

// TooManyParamsError rejects a top-level parameter bag with too many keys.
type TooManyParamsError struct {
	Count int
	Max   int
}

func (e *TooManyParamsError) Error() string {
	return fmt.Sprintf("too many parameters: %d exceeds limit of %d", e.Count, e.Max)
}

// ParamTypeError reports a declared parameter whose runtime type does not
// match any of the expected type names.
type ParamTypeError struct {
	Field    string
	Expected []string
	Actual   string
}

func (e *ParamTypeError) Error() string {
	return fmt.Sprintf("invalid parameter type for %q: expected %s, got %s",
		e.Field, strings.Join(e.Expected, " or "), e.Actual)
}

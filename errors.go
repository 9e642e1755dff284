package openmethod

import "fmt"

// UndefinedCallError is returned when no registered override applies to
// the dynamic argument tuple.
type UndefinedCallError struct {
	Method string
}

func (e *UndefinedCallError) Error() string {
	return fmt.Sprintf("this call to '%s' is not implemented", e.Method)
}

// AmbiguousCallError is returned when several overrides apply and none is
// most specific in the partial order.
type AmbiguousCallError struct {
	Method string
}

func (e *AmbiguousCallError) Error() string {
	return fmt.Sprintf("this call to '%s' is ambiguous", e.Method)
}

func throwUndefined(name string) OverrideFunc {
	return func(args []any) (any, error) {
		return nil, &UndefinedCallError{Method: name}
	}
}

func throwAmbiguous(name string) OverrideFunc {
	return func(args []any) (any, error) {
		return nil, &AmbiguousCallError{Method: name}
	}
}

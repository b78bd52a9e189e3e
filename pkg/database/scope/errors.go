package scope

import (
	"fmt"
	"strings"
)

// TeardownError aggregates several failures from one unwind. Primary is the
// first failure encountered; Suppressed holds the rest in encounter order.
type TeardownError struct {
	Primary    error
	Suppressed []error
}

func (e *TeardownError) Error() string {
	var b strings.Builder
	b.WriteString(e.Primary.Error())
	if n := len(e.Suppressed); n > 0 {
		fmt.Fprintf(&b, " (%d suppressed: ", n)
		for i, s := range e.Suppressed {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(s.Error())
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the primary followed by every suppressed error.
func (e *TeardownError) Unwrap() []error {
	errs := make([]error, 0, len(e.Suppressed)+1)
	errs = append(errs, e.Primary)
	return append(errs, e.Suppressed...)
}

// PanicError carries a value recovered from a panicking close action.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("close action panicked: %v", e.Value)
}

// Join combines a failure with the teardown error of the same unwind.
// primary stays primary; the causes of a *TeardownError are flattened into
// Suppressed. Either argument may be nil.
func Join(primary, teardown error) error {
	if teardown == nil {
		return primary
	}
	if primary == nil {
		return teardown
	}
	errs := []error{primary}
	if te, ok := teardown.(*TeardownError); ok {
		errs = append(errs, te.Unwrap()...)
	} else {
		errs = append(errs, teardown)
	}
	return aggregate(errs)
}

func aggregate(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &TeardownError{Primary: errs[0], Suppressed: errs[1:]}
	}
}

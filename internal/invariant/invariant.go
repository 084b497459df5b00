// Package invariant reports internal consistency failures of compiler passes.
//
// A violation means a pass received a tree it cannot have been handed by a
// correct pipeline (unknown operator, wrong arity, missing temporary). Passes
// return such errors immediately and never recover from them.
package invariant

import (
	"errors"
	"fmt"
)

// ErrViolation is wrapped by every Violation.
var ErrViolation = errors.New("internal invariant violated")

// Violation is an invariant failure attributed to a pass.
type Violation struct {
	Pass string
	Msg  string
}

func (v *Violation) Error() string {
	if v.Pass == "" {
		return fmt.Sprintf("%s: %s", ErrViolation, v.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", v.Pass, ErrViolation, v.Msg)
}

func (v *Violation) Unwrap() error { return ErrViolation }

// Errorf builds a Violation for pass.
func Errorf(pass, format string, args ...any) error {
	return &Violation{Pass: pass, Msg: fmt.Sprintf(format, args...)}
}

// As extracts the Violation from err's chain.
func As(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

package slashnet

import "errors"

// Validator accumulates length/field errors found while checking a frame
// before parsing it, mirroring the pre-parse length checks spec.md §7
// requires ahead of every protocol handler. The zero value is ready to use.
type Validator struct {
	accum []error
}

// ResetErr clears any accumulated errors so the Validator can be reused on
// the next frame.
func (v *Validator) ResetErr() { v.accum = v.accum[:0] }

// Err returns nil if no errors were recorded, the single recorded error, or
// a joined error if more than one was recorded.
func (v *Validator) Err() error {
	switch len(v.accum) {
	case 0:
		return nil
	case 1:
		return v.accum[0]
	default:
		return errors.Join(v.accum...)
	}
}

// AddError records err.
func (v *Validator) AddError(err error) { v.accum = append(v.accum, err) }

package errs

import "github.com/pkg/errors"

// Internal marks an invariant violation: a situation the earlier passes
// should have already ruled out (e.g. a cycle surviving normalization, or a
// schedule that the scheduler could not linearize). Unlike the taxonomy
// above, an Internal error is never something a source-language author can
// fix, so it is wrapped with a stack trace via github.com/pkg/errors and
// bypasses the Sink entirely: callers bail out immediately.
type Internal struct {
	Op  string
	err error
}

func (i *Internal) Error() string { return "internal error in " + i.Op + ": " + i.err.Error() }

func (i *Internal) Unwrap() error { return i.err }

// NewInternal wraps err with a stack trace and tags it with the operation
// that discovered the violated invariant.
func NewInternal(op string, err error) *Internal {
	return &Internal{Op: op, err: errors.WithStack(err)}
}

// Internalf is the formatted equivalent of NewInternal.
func Internalf(op, format string, args ...interface{}) *Internal {
	return &Internal{Op: op, err: errors.Errorf(format, args...)}
}

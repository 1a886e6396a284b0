package errs

import "errors"

// Sink accumulates diagnostics across a pass. A pass never returns on the
// first error: it pushes every problem it finds into the sink so the caller
// sees the full set, then returns ErrTerminated once to signal that later
// phases should be skipped for the file/component at hand.
type Sink interface {
	Push(*Error)
}

// List is the default Sink: an ordered, duplicate-tolerant slice.
type List struct {
	items []*Error
}

func (l *List) Push(e *Error) {
	if e == nil {
		return
	}
	l.items = append(l.items, e)
}

func (l *List) Errors() []*Error { return l.items }

func (l *List) Len() int { return len(l.items) }

func (l *List) Reset() { l.items = nil }

// ErrTerminated is the termination sentinel: it carries no information of
// its own, it only tells a caller "stop, diagnostics are in the sink".
var ErrTerminated = errors.New("compilation terminated: see diagnostics")

// Terminated returns ErrTerminated if the sink holds at least one error,
// nil otherwise. Passes call this at their single exit point.
func Terminated(sink Sink) error {
	if l, ok := sink.(*List); ok && l.Len() > 0 {
		return ErrTerminated
	}
	return nil
}

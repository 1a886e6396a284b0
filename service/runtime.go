package service

import "github.com/viant/flowc/symtab"

// Handler is a callback invoked when a timer fires. Interpreting what the
// underlying dataflow component computes is out of scope; Handler exists so
// a host embedding this compiler can wire its own evaluator in.
type Handler func(instant int, ctx *Context)

// RuntimeLoop drives an ExecutionMachine's Timers deterministically: at
// every instant (a multiple of MinPeriodMS milliseconds), every due timer
// fires in ascending Owner order — the same tie-break schedule.Schedule
// uses for statement ordering — so two runs over the same machine and
// handler set always produce the same interleaving.
type RuntimeLoop struct {
	Machine  *ExecutionMachine
	Handlers map[symtab.ID]Handler
}

func NewRuntimeLoop(m *ExecutionMachine) *RuntimeLoop {
	return &RuntimeLoop{Machine: m, Handlers: map[symtab.ID]Handler{}}
}

func (r *RuntimeLoop) On(owner symtab.ID, h Handler) { r.Handlers[owner] = h }

// Run advances ticks instants, each MinPeriodMS milliseconds apart (Timers
// are already sorted ascending by Owner at Compile time). A TimerDeadline
// fires exactly once, at the first instant whose elapsed time is >= its
// PeriodMS; a TimerPeriodic fires whenever elapsed time is an exact
// multiple of its PeriodMS.
func (r *RuntimeLoop) Run(ticks int) {
	fired := map[*Timer]bool{}
	for t := 0; t < ticks; t++ {
		elapsed := t * r.Machine.MinPeriodMS
		for _, timer := range r.Machine.Timers {
			due := false
			switch timer.Kind {
			case TimerPeriodic:
				due = timer.PeriodMS > 0 && elapsed%timer.PeriodMS == 0
			case TimerDeadline:
				due = !fired[timer] && elapsed >= timer.PeriodMS
			case TimerThrottle:
				due = timer.PeriodMS > 0 && elapsed%timer.PeriodMS == 0
			}
			if !due {
				continue
			}
			fired[timer] = true
			if h, ok := r.Handlers[timer.Owner]; ok {
				h(t, r.Machine.Context)
			}
			r.Machine.Context.MarkDirty(timer.Owner, t)
		}
	}
}

package compiler

import (
	"github.com/ternarybob/arbor"
	"github.com/viant/flowc/config"
	"github.com/viant/flowc/internal/clog"
)

// Option configures a Pipeline, following the teacher's functional-options
// pattern (analyzer.Option) one-for-one: where the teacher's options picked
// a tree-sitter grammar and registered walk/annotation hooks, these pick the
// compiler's config.Options and register phase/plugin hooks instead.
type Option func(*Pipeline)

// PhaseHook mirrors the teacher's AnalyzerPlugin.BeforeWalk/AfterResolveIdent
// pair: a callback a host can register to observe (never mutate) a named
// pipeline phase as it runs.
type PhaseHook func(phase string, counters map[string]int)

// WithConfig overrides the Pipeline's config.Options wholesale.
func WithConfig(opt config.Options) Option {
	return func(p *Pipeline) { p.Options = opt }
}

// WithLogger installs logger as the process-wide clog singleton before the
// Pipeline runs, the way the teacher's WithLanguage configures the parser
// before the first Walk.
func WithLogger(logger arbor.ILogger) Option {
	return func(p *Pipeline) { clog.Init(logger) }
}

// WithPhaseHook registers a hook invoked at the start of every named phase.
func WithPhaseHook(hook PhaseHook) Option {
	return func(p *Pipeline) { p.hooks = append(p.hooks, hook) }
}

// WithEagerMonomorphization toggles config.Options.EagerMonomorphization
// without requiring the caller to build a whole config.Options value.
func WithEagerMonomorphization() Option {
	return func(p *Pipeline) { p.Options.EagerMonomorphization = true }
}

package ctrldep

import "github.com/rs/zerolog"

// Option configures a FunctionAnalysis or ModuleAnalysis.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	trace   func(fnName string) bool
	workers int
}

func newOptions(opts []Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger receiving debug-level edge decisions.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTraceFilter restricts logging to functions whose name matches.
func WithTraceFilter(match func(fnName string) bool) Option {
	return func(o *options) { o.trace = match }
}

// WithWorkers analyzes up to n functions of a module concurrently.
// n <= 1 analyzes them one after another.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func (o *options) loggerFor(name string) zerolog.Logger {
	if o.trace != nil && !o.trace(name) {
		return zerolog.Nop()
	}
	return o.logger.With().Str("func", name).Logger()
}

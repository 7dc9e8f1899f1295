package doflayout

import "github.com/charmbracelet/log"

type options struct {
	logger *log.Logger
}

// Option configures layout construction
type Option func(*options)

// WithLogger traces table construction at debug level. Construction is silent
// without it.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) debug(msg string, keyvals ...interface{}) {
	if o.logger != nil {
		o.logger.Debug(msg, keyvals...)
	}
}

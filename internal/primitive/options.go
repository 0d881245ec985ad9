package primitive

import (
	"log/slog"

	"github.com/born-ml/jitconv/internal/kernel"
)

// Option configures descriptor initialization and primitive construction.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry *Registry
	strategy string
	kernel   kernel.Options
}

func newOptions(opts []Option) *options {
	o := &options{
		registry: Global,
		kernel:   kernel.DefaultOptions(),
	}
	o.logger = o.kernel.Logger
	for _, opt := range opts {
		opt(o)
	}
	if o.kernel.Logger == nil {
		o.kernel.Logger = o.logger
	}
	return o
}

// WithLogger sets the logger for rejections and kernel instantiation. A nil
// logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = kernel.DefaultOptions().Logger
		}
		o.logger = l
		o.kernel.Logger = l
	}
}

// WithRegistry resolves strategies from r instead of the global registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithStrategy pins initialization to the named strategy.
func WithStrategy(name string) Option {
	return func(o *options) {
		o.strategy = name
	}
}

// WithKernelOptions sets the options the kernel is instantiated with.
func WithKernelOptions(ko kernel.Options) Option {
	return func(o *options) {
		o.kernel = ko
	}
}

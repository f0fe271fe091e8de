package lifecycle

import (
	"io"
	"os"

	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/dicengine/dice/pkg/metrics"
)

// Option configures Initialize.
type Option func(*options)

type options struct {
	output     io.Writer
	descriptor buildinfo.Descriptor
	metrics    metrics.LifecycleMetrics
}

func newOptions(opts []Option) options {
	o := options{
		output:     os.Stdout,
		descriptor: buildinfo.Current(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithOutput sets where the banner is written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithDescriptor overrides the build configuration shown in the banner.
func WithDescriptor(d buildinfo.Descriptor) Option {
	return func(o *options) {
		o.descriptor = d
	}
}

// WithMetrics records transitions on m. If nil or not set, no metrics
// are recorded.
func WithMetrics(m metrics.LifecycleMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

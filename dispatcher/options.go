package dispatcher

import (
	"log/slog"

	"github.com/saleem-mirza/aws-demos/dedup"
)

// dispatcherOptions holds the optional collaborators of a Dispatcher.
type dispatcherOptions struct {
	logger  *slog.Logger
	deduper dedup.Store
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*dispatcherOptions)

// WithLogger configures the dispatcher with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *dispatcherOptions) {
		opts.logger = logger
	}
}

// WithDeduper enables launch deduplication through store.
// Passing nil disables it.
func WithDeduper(store dedup.Store) Option {
	return func(opts *dispatcherOptions) {
		opts.deduper = store
	}
}

func defaultOptions() *dispatcherOptions {
	return &dispatcherOptions{
		logger:  nil,
		deduper: dedup.Noop{},
	}
}

func applyOptions(opts *dispatcherOptions, options []Option) {
	for _, option := range options {
		if option != nil {
			option(opts)
		}
	}
	if opts.deduper == nil {
		opts.deduper = dedup.Noop{}
	}
}

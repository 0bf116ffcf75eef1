package local

import "os"

// Option configures a Group.
type Option func(*options)

type options struct {
	allocLimit int
	abort      func(rank, code int)
}

func defaultOptions() options {
	return options{abort: func(_, code int) { os.Exit(code) }}
}

// WithAllocLimit makes Alloc fail once a rank holds n live buffers. Zero
// means no limit.
func WithAllocLimit(n int) Option {
	return func(o *options) { o.allocLimit = n }
}

// WithAbort replaces the abort action, which by default exits the process
// with the abort code. If fn returns, Transport.Abort returns too.
func WithAbort(fn func(rank, code int)) Option {
	return func(o *options) { o.abort = fn }
}

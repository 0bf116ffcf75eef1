package rma

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/rmakit/internal/logger"
)

// Options configures a Context.
type Options struct {
	// Config is the process-wide configuration.
	// Default: DefaultConfig()
	Config Config

	// Logger receives debug events and fatal errors.
	// Default: logger.L
	Logger *slog.Logger

	// ErrorOutput receives the one-line diagnostic written before an abort.
	// Default: os.Stderr
	ErrorOutput io.Writer

	// Async reconfigures asynchronous progress after global fences.
	// Default: nil (no async configuration)
	Async AsyncConfigurer
}

// DefaultOptions returns options with the default configuration.
func DefaultOptions() *Options {
	return &Options{Config: DefaultConfig()}
}

// Context is the initialization-scoped state of the layer for one rank: the
// frozen configuration and the collaborators every operation goes through.
type Context struct {
	cfg   Config
	tr    Transport
	reg   Registry
	async AsyncConfigurer
	log   *slog.Logger
	errw  io.Writer

	counters counters
}

// New creates a Context for the rank behind tr. opts may be nil.
func New(tr Transport, reg Registry, opts *Options) *Context {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = logger.L
	}
	errw := opts.ErrorOutput
	if errw == nil {
		errw = os.Stderr
	}
	return &Context{
		cfg:   opts.Config,
		tr:    tr,
		reg:   reg,
		async: opts.Async,
		log:   log,
		errw:  errw,
	}
}

// Config returns the configuration the Context was created with.
func (c *Context) Config() Config { return c.cfg }

// Rank returns the local rank.
func (c *Context) Rank() int { return c.tr.Rank() }

// fatal reports err and aborts the group. It never returns.
func (c *Context) fatal(code int, err error) {
	rank := c.tr.Rank()
	fmt.Fprintf(c.errw, "[%d] ARMCI Error: %v\n", rank, err)
	c.log.Error("fatal error, aborting", "rank", rank, "code", code, "err", err)
	c.tr.Abort(code)
	panic(&AbortError{Rank: rank, Code: code, Err: err})
}

func (c *Context) debug(msg string, args ...any) {
	if c.cfg.Verbose {
		c.log.Debug(msg, args...)
	}
}

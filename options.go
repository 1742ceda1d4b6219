package gridcalc

import (
	"github.com/hashicorp/go-hclog"
)

// Default sheet configuration.
const (
	DefaultRows     = 50
	DefaultCols     = 26
	DefaultMaxDepth = 256
)

// Options holds configuration for a Sheet.
type Options struct {
	rows     int
	cols     int
	maxDepth int
	logger   hclog.Logger
}

func defaultOptions() *Options {
	return &Options{
		rows:     DefaultRows,
		cols:     DefaultCols,
		maxDepth: DefaultMaxDepth,
		logger:   hclog.NewNullLogger(),
	}
}

// Option configures a Sheet.
type Option func(*Options)

// WithSize sets the initial grid size (default: 50 rows, 26 columns).
// Sizes that no grid can have are ignored.
func WithSize(rows, cols int) Option {
	return func(o *Options) {
		if checkSize(rows, cols) != nil {
			return
		}
		o.rows = rows
		o.cols = cols
	}
}

// WithMaxDepth bounds how deep reference chains may nest before evaluation
// fails (default: 256).
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithLogger sets the logger (default: a null logger).
func WithLogger(l hclog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

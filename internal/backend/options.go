package backend

import "fmt"

// Options configures the gini backend.
type Options struct {
	// MaxObjectiveLiterals caps the weight-replicated literals of one priority level.
	MaxObjectiveLiterals int
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{MaxObjectiveLiterals: 1 << 16}
}

// WithMaxObjectiveLiterals panics on a non-positive limit.
func WithMaxObjectiveLiterals(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic(fmt.Sprintf("backend: objective literal limit must be > 0, got %d", n))
		}
		o.MaxObjectiveLiterals = n
	}
}

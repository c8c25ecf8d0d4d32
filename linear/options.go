package linear

import "github.com/YuminosukeSato/ridgepca/pkg/log"

// DefaultRankTolerance is the relative size below which a diagonal entry of
// the triangular QR factor marks the design as rank-deficient.
const DefaultRankTolerance = 1e-10

type config struct {
	logger        log.Logger
	rankTolerance float64
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:        log.GetLoggerWithName("linear.ridge"),
		rankTolerance: DefaultRankTolerance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option is a function that configures FitRidge
type Option func(*config)

// WithLogger sets the logger used for fit diagnostics
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRankTolerance sets the relative tolerance of the rank check that
// decides between the QR solve and the minimum-norm SVD solve
func WithRankTolerance(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.rankTolerance = tol
		}
	}
}

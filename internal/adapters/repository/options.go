package repository

import "time"

// Option applies a configuration option to the TreapBoard.
type Option func(*TreapBoard)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(b *TreapBoard) {
		if interval > 0 {
			b.metricsUpdateInterval = interval
		}
	}
}

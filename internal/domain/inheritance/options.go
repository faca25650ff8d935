package inheritance

// Option applies a configuration option to the Combiner.
type Option func(*Combiner)

// WithBlendVariance bounds the symmetric jitter added to blended values.
func WithBlendVariance(variance float64) Option {
	return func(c *Combiner) {
		if variance >= 0 && variance <= 1 {
			c.variance = variance
		}
	}
}

// WithCarrierDilution sets the factor applied to the dominance of a gene
// inherited from only one parent.
func WithCarrierDilution(factor float64) Option {
	return func(c *Combiner) {
		if factor >= 0 && factor <= 1 {
			c.carrierDilution = factor
		}
	}
}

// WithEnhancedThreshold sets the blended value at or above which a gene is
// expressed as Enhanced.
func WithEnhancedThreshold(threshold float64) Option {
	return func(c *Combiner) {
		if threshold > 0 && threshold <= 1 {
			c.enhancedThreshold = threshold
		}
	}
}

// WithSuppressedThreshold sets the blended value at or below which a gene is
// expressed as Suppressed.
func WithSuppressedThreshold(threshold float64) Option {
	return func(c *Combiner) {
		if threshold >= 0 && threshold < 1 {
			c.suppressedThreshold = threshold
		}
	}
}

package dedupe

// Option applies a configuration option to the Deduplicator.
type Option func(*Deduplicator)

// WithThreshold overrides the merge threshold. A candidate joins a
// cluster only when its similarity to the anchor is strictly greater
// than the threshold.
func WithThreshold(t float64) Option {
	return func(d *Deduplicator) {
		if t > 0 && t < 1 {
			d.threshold = t
		}
	}
}

package browse

// DefaultScrollTopThreshold is the row offset past which the scroll-to-top
// control is shown.
const DefaultScrollTopThreshold = 30

// ScrollTracker follows the list's vertical offset in rows.
type ScrollTracker struct {
	threshold int
	offset    int
}

// NewScrollTracker returns a tracker; threshold <= 0 uses the default.
func NewScrollTracker(threshold int) *ScrollTracker {
	if threshold <= 0 {
		threshold = DefaultScrollTopThreshold
	}
	return &ScrollTracker{threshold: threshold}
}

// SetOffset records the current offset. Negative values clamp to zero.
func (t *ScrollTracker) SetOffset(rows int) {
	t.offset = max(rows, 0)
}

// Offset returns the last recorded offset.
func (t *ScrollTracker) Offset() int { return t.offset }

// Threshold returns the configured threshold.
func (t *ScrollTracker) Threshold() int { return t.threshold }

// ShowScrollTop reports whether the offset is strictly past the threshold.
func (t *ScrollTracker) ShowScrollTop() bool {
	return t.offset > t.threshold
}

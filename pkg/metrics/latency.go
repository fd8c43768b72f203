package metrics

import "time"

// Latency captures how long the upstream prediction call took.
type Latency struct {
	UpstreamMs int64 `json:"upstreamMs"`
}

// Since builds a Latency from a start time.
func Since(start time.Time) Latency {
	return Latency{UpstreamMs: time.Since(start).Milliseconds()}
}

// IsZero reports whether timing data is absent.
func (l Latency) IsZero() bool {
	return l.UpstreamMs == 0
}

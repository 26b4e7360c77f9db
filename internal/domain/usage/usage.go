// Package usage describes completion quota consumption for the usage report.
package usage

// Report is a snapshot of the completion gateway's quota window.
type Report struct {
	provider     string
	model        string
	limit        int64
	used         int64
	windowStart  int64 // unix millis
	windowEnd    int64 // unix millis
	cacheEntries int
}

// NewReport creates a usage report.
func NewReport(provider, model string, limit, used, windowStart, windowEnd int64, cacheEntries int) Report {
	return Report{
		provider:     provider,
		model:        model,
		limit:        limit,
		used:         used,
		windowStart:  windowStart,
		windowEnd:    windowEnd,
		cacheEntries: cacheEntries,
	}
}

// Provider returns the completion provider name.
func (r Report) Provider() string { return r.provider }

// Model returns the completion model.
func (r Report) Model() string { return r.model }

// Limit returns the per-window request cap (0 = unlimited).
func (r Report) Limit() int64 { return r.limit }

// Used returns requests made in the current window.
func (r Report) Used() int64 { return r.used }

// Remaining returns requests left in the window, or -1 when unlimited.
func (r Report) Remaining() int64 {
	if r.limit <= 0 {
		return -1
	}
	if r.used >= r.limit {
		return 0
	}
	return r.limit - r.used
}

// Exhausted reports whether no requests are left in the window.
func (r Report) Exhausted() bool { return r.limit > 0 && r.used >= r.limit }

// WindowStart returns the window start (unix millis).
func (r Report) WindowStart() int64 { return r.windowStart }

// WindowEnd returns the window end (unix millis).
func (r Report) WindowEnd() int64 { return r.windowEnd }

// CacheEntries returns the number of live response cache entries.
func (r Report) CacheEntries() int { return r.cacheEntries }

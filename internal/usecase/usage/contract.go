package usage

import "time"

// QuotaReader provides read-only access to the completion quota window.
type QuotaReader interface {
	Snapshot() (limit, used int64, start, end time.Time)
	CacheEntries() int
}

package pustaka

import (
	"context"
	"time"

	domusage "github.com/pustaka-digital/pustaka/internal/domain/usage"
)

// UsageReport describes completion quota consumption in the current window.
type UsageReport struct {
	Provider     string
	Model        string
	Limit        int64
	Used         int64
	Remaining    int64
	Exhausted    bool
	WindowStart  time.Time
	WindowEnd    time.Time
	CacheEntries int
}

// Usage returns the current quota window. The report is read from memory and
// never fails.
func (c *Client) Usage(ctx context.Context) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	r := c.usageSvc.GetReport(ctx)
	return UsageReport{
		Provider:     r.Provider(),
		Model:        r.Model(),
		Limit:        r.Limit(),
		Used:         r.Used(),
		Remaining:    r.Remaining(),
		Exhausted:    r.Exhausted(),
		WindowStart:  time.UnixMilli(r.WindowStart()).UTC(),
		WindowEnd:    time.UnixMilli(r.WindowEnd()).UTC(),
		CacheEntries: r.CacheEntries(),
	}
}

type usageUseCase interface {
	GetReport(ctx context.Context) domusage.Report
}

package usage

import (
	"context"
	"testing"
	"time"
)

// --- Mock ---

type mockQuotaReader struct {
	limit, used int64
	start       time.Time
	window      time.Duration
	entries     int
}

func (m *mockQuotaReader) Snapshot() (limit, used int64, start, end time.Time) {
	return m.limit, m.used, m.start, m.start.Add(m.window)
}

func (m *mockQuotaReader) CacheEntries() int { return m.entries }

// --- Tests ---

func TestGetReport_Window(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	qr := &mockQuotaReader{limit: 60, used: 12, start: start, window: time.Hour, entries: 4}
	r := New(qr, "openai", "gpt-4o-mini").GetReport(context.Background())

	if r.Provider() != "openai" || r.Model() != "gpt-4o-mini" {
		t.Errorf("provider/model = %s/%s", r.Provider(), r.Model())
	}
	if r.WindowStart() != start.UnixMilli() {
		t.Errorf("expected window start %d, got %d", start.UnixMilli(), r.WindowStart())
	}
	if r.WindowEnd() != start.Add(time.Hour).UnixMilli() {
		t.Errorf("expected window end %d, got %d", start.Add(time.Hour).UnixMilli(), r.WindowEnd())
	}
	if r.Limit() != 60 || r.Used() != 12 || r.Remaining() != 48 {
		t.Errorf("limit/used/remaining = %d/%d/%d", r.Limit(), r.Used(), r.Remaining())
	}
	if r.Exhausted() {
		t.Error("quota should not be exhausted")
	}
	if r.CacheEntries() != 4 {
		t.Errorf("expected 4 cache entries, got %d", r.CacheEntries())
	}
}

func TestGetReport_Exhausted(t *testing.T) {
	qr := &mockQuotaReader{limit: 5, used: 5, start: time.Now(), window: time.Hour}
	r := New(qr, "anthropic", "claude").GetReport(context.Background())

	if !r.Exhausted() {
		t.Error("quota should be exhausted when used reaches the limit")
	}
	if r.Remaining() != 0 {
		t.Errorf("expected remaining 0, got %d", r.Remaining())
	}
}

func TestGetReport_Unlimited(t *testing.T) {
	qr := &mockQuotaReader{limit: 0, used: 1000, start: time.Now(), window: time.Hour}
	r := New(qr, "openai", "m").GetReport(context.Background())

	if r.Remaining() != -1 {
		t.Errorf("expected -1 for unlimited, got %d", r.Remaining())
	}
	if r.Exhausted() {
		t.Error("unlimited quota is never exhausted")
	}
}

func TestGetReport_NilQuotaReader(t *testing.T) {
	r := New(nil, "openai", "m").GetReport(context.Background())

	if r.Limit() != 0 || r.Used() != 0 {
		t.Errorf("expected zero report, got %d/%d", r.Limit(), r.Used())
	}
	if r.WindowStart() != 0 || r.WindowEnd() != 0 {
		t.Error("expected no window bounds")
	}
}

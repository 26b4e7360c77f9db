package usage

import (
	"context"

	domusage "github.com/pustaka-digital/pustaka/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	qr       QuotaReader
	provider string
	model    string
}

// New creates a Service. qr can be nil (no completion provider configured).
func New(qr QuotaReader, provider, model string) *Service {
	return &Service{qr: qr, provider: provider, model: model}
}

// GetReport builds a usage report for the current quota window.
func (s *Service) GetReport(_ context.Context) domusage.Report {
	if s.qr == nil {
		return domusage.NewReport(s.provider, s.model, 0, 0, 0, 0, 0)
	}
	limit, used, start, end := s.qr.Snapshot()
	return domusage.NewReport(s.provider, s.model, limit, used, start.UnixMilli(), end.UnixMilli(), s.qr.CacheEntries())
}

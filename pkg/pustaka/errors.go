package pustaka

import "github.com/pustaka-digital/pustaka/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound       = domain.ErrNotFound
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrUnknownMode    = domain.ErrUnknownMode
	ErrProviderError  = domain.ErrProviderError
	ErrQuotaExhausted = domain.ErrQuotaExhausted
	ErrRateLimited    = domain.ErrRateLimited
)

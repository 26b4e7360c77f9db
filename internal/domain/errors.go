package domain

import "errors"

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "pustaka:"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a malformed client request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownMode signals a generation request without a recognized mode flag.
	ErrUnknownMode = errors.New("unknown generation mode")
	// ErrProviderError signals a text completion provider failure.
	ErrProviderError = errors.New("completion provider error")
	// ErrQuotaExhausted signals that the completion quota window is spent.
	ErrQuotaExhausted = errors.New("completion quota exhausted")
	// ErrRateLimited signals an upstream 429.
	ErrRateLimited = errors.New("rate limited")
)

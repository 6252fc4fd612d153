package platform

import "errors"

var (
	ErrRateLimited   = errors.New("Rate limit exceeded")
	ErrUnavailable   = errors.New("exchange unavailable")
	ErrOrderNotFound = errors.New("order not found")
	ErrWouldTake     = errors.New("post-only order would take liquidity")
	ErrNoCredentials = errors.New("private api requires key and secret")
)

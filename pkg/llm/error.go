package llm

import "errors"

var (
	// ErrRateLimited is returned when the hosted service throttles the request.
	ErrRateLimited = errors.New("rate limited by model provider")

	// ErrAuth is returned when the provider rejects the credentials.
	ErrAuth = errors.New("model provider authentication failed")

	// ErrUpstream is returned when the provider fails server-side or is unreachable.
	ErrUpstream = errors.New("model provider unavailable")

	// ErrTimeout is returned when a completion does not finish in time.
	ErrTimeout = errors.New("model completion timed out")
)

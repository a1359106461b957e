package clients

import "errors"

// Failure conditions surfaced by the inference client. Callers match
// these with errors.Is; wrapped messages carry the request context.
var (
	ErrMissingToken = errors.New("missing API token")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("unauthorized")
	ErrOverloaded   = errors.New("service overloaded")
	ErrModelLoading = errors.New("model is loading")
	ErrTimeout      = errors.New("request timed out")
	ErrConnection   = errors.New("connection failure")
	ErrUpstream     = errors.New("upstream error")
)

var (
	ErrInvalidTweetURL = errors.New("invalid tweet URL")
	ErrTweetNotFound   = errors.New("tweet not found")
)

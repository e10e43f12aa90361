package domain

import "errors"

// Model-call failure classes. The runner retries rate limits with
// backoff; hard failures abort the question on the first attempt.
var (
	ErrModelRateLimited = errors.New("model rate limited")
	ErrModelHardFailure = errors.New("model request failed")
)

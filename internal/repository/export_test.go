package repository

var (
	Retryable = retryable
	WithRetry = withRetry
)

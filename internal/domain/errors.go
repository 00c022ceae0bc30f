package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrScrapeFailed is returned when the product page cannot be fetched or parsed
	ErrScrapeFailed = errors.New("product page scrape failed")

	// ErrDataTable is returned when the emission factor table or catalog cannot be loaded
	ErrDataTable = errors.New("data table unavailable")

	// ErrLLMUnavailable is returned when every configured LLM credential failed
	ErrLLMUnavailable = errors.New("LLM estimate unavailable")

	// ErrLLMNoCredentials is returned when no LLM API key is configured
	ErrLLMNoCredentials = errors.New("no LLM API keys configured")

	// ErrLLMNoNumber is returned when the model output contains no integer
	ErrLLMNoNumber = errors.New("no integer found in LLM output")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)

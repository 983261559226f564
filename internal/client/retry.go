package client

import (
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

const (
	retryDelay    = 250 * time.Millisecond
	retryMaxDelay = 2 * time.Second
)

// isTransient reports whether an attempt failed in a way that another attempt could fix.
// Definitive answers (2xx, 4xx other than 429, 500) are never retried.
func isTransient(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// newRetryTransport wraps next with a failsafe retry policy. maxRetries <= 0 disables retries.
func newRetryTransport(next http.RoundTripper, maxRetries int) http.RoundTripper {
	if maxRetries <= 0 {
		return next
	}
	policy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(isTransient).
		WithMaxRetries(maxRetries).
		WithBackoff(retryDelay, retryMaxDelay).
		ReturnLastFailure().
		Build()
	return failsafehttp.NewRoundTripper(next, policy)
}

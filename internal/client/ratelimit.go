package client

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitedTransport spaces outbound requests so that a burst of resolutions
// does not hammer a provider.
type rateLimitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

// newRateLimitedTransport returns next unchanged when perSecond <= 0.
func newRateLimitedTransport(next http.RoundTripper, perSecond float64, burst int) http.RoundTripper {
	if perSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedTransport{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		next:    next,
	}
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Wait honours request cancellation, so an abandoned resolution does not queue here
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

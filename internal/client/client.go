// Package client builds the shared outbound HTTP stack used to talk to
// providers, the metadata service and the stream aggregator.
package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
)

// DefaultTimeout bounds a single outbound call when client.timeout is unset or invalid.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient creates the outbound client: optional proxy, rate limiting,
// retries for transient failures and transparent decompression.
// The returned client is safe for concurrent use by independent resolutions.
func NewHTTPClient(cfg *config.Config) *http.Client {
	return newHTTPClient(cfg, cfg.Client.MaxRetries)
}

// NewSingleCallClient creates the same stack as NewHTTPClient without the
// retry layer. Provider adapters and the stream aggregator issue exactly one
// request per call regardless of client.max_retries.
func NewSingleCallClient(cfg *config.Config) *http.Client {
	return newHTTPClient(cfg, 0)
}

func newHTTPClient(cfg *config.Config, maxRetries int) *http.Client {
	logger := config.GetLogger()

	timeout := DefaultTimeout
	if cfg.Client.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Client.Timeout); err != nil || parsed <= 0 {
			logger.Warn().Err(err).Str("timeout", cfg.Client.Timeout).Msg("Invalid timeout duration, using default 10s")
		} else {
			timeout = parsed
		}
	}

	// Clone DefaultTransport to keep its pooling, HTTP/2 and dial timeouts
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	var transport http.RoundTripper = baseTransport
	transport = newRateLimitedTransport(transport, cfg.Client.RateLimit, cfg.Client.RateBurst)
	transport = newRetryTransport(transport, maxRetries)
	transport = newCompressionTransport(transport)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

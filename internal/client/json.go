package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metrics"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 10 * 1024 * 1024

// StatusError reports a non-2xx upstream response. It deliberately omits the
// request URL, which may carry credentials.
type StatusError struct {
	Upstream   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Upstream, e.StatusCode)
}

// GetJSON performs a GET against rawURL and decodes the JSON body into out.
// upstream names the remote service for errors and latency metrics.
func GetJSON(ctx context.Context, hc *http.Client, upstream, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := hc.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
	if err != nil {
		// url.Error repeats the full URL, which can carry API keys
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%s request: %w", upstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Upstream: upstream, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", upstream, err)
	}
	return nil
}

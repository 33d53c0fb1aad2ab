package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"zillow-scraper/config"
)

// ErrBadStatus marks a non-2xx response.
var ErrBadStatus = errors.New("fetcher: non-2xx status")

// FetchError is the transport-level failure for a single fetch. The
// fetcher never retries internally; retry policy belongs to the caller.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves the raw content of an absolute URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// HTTPFetcher issues direct HTTP fetches through an optional unlocker
// proxy with custom trust material. The transport is built once from
// config and never read from ambient global state.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New builds an HTTPFetcher from config. A proxy URL and CA bundle are
// optional; without them the default transport applies.
func New(cfg *config.Config) (*HTTPFetcher, error) {
	transport := &http.Transport{}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("fetcher: parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.ProxyCAPath != "" {
		pem, err := os.ReadFile(cfg.ProxyCAPath)
		if err != nil {
			return nil, fmt.Errorf("fetcher: read proxy CA %q: %w", cfg.ProxyCAPath, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("fetcher: no usable certificates in %q", cfg.ProxyCAPath)
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		userAgent: cfg.UserAgent,
	}, nil
}

// Fetch issues exactly one GET request and returns the body as a string.
// Any transport failure or non-2xx status yields a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("%w: %s", ErrBadStatus, res.Status)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	return string(body), nil
}

// Timeout exposes the configured per-request upper bound, used by
// callers that pace between fetches.
func (f *HTTPFetcher) Timeout() time.Duration {
	return f.client.Timeout
}

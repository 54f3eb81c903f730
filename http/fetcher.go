// Package http provides HTTP-based implementations of modwiki.Fetcher and
// modwiki.CategoryLister for the MediaWiki site hosting the mod wiki.
package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/modwiki"
)

// DefaultFetchTimeout is the default timeout for a single HTTP request.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the tool to the wiki operators.
const DefaultUserAgent = "modwiki/1.0 (+https://github.com/fwojciec/modwiki)"

// MaxBodySize caps the size of a response body.
const MaxBodySize = 8 << 20

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s.
// Together with the initial request this bounds a fetch to 3 attempts.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// Ensure Fetcher implements modwiki.Fetcher at compile time.
var _ modwiki.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using HTTP requests with connection reuse,
// per-request timeouts and retry on transient failures.
// TLS certificate verification is always enabled.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	delays    []time.Duration
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each HTTP request.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRetryDelays sets the backoff delays between attempts. An empty slice
// disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithClient sets the underlying HTTP client. The fetcher's timeout is
// applied when the client has none.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithLogger sets a logger that receives a debug entry for each retry.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		delays:    DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		f.client = &http.Client{Transport: transport}
	}
	if f.client.Timeout == 0 {
		f.client.Timeout = f.timeout
	}

	return f
}

// Fetch retrieves the body at rawURL. Transient failures are retried with
// exponential backoff; permanent failures are returned immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	maxAttempts := len(f.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !modwiki.IsTransient(err) || attempt >= maxAttempts-1 {
			break
		}

		if f.logger != nil {
			f.logger.Debug("retry", "url", rawURL, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &modwiki.NetworkError{URL: rawURL, Err: err}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, &modwiki.NetworkError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &modwiki.NetworkError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &modwiki.NetworkError{URL: rawURL, Transient: isTransientError(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
		return nil, &modwiki.NetworkError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Transient:  isTransientStatus(resp.StatusCode),
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &modwiki.NetworkError{URL: rawURL, Transient: isTransientError(err), Err: err}
	}
	if len(body) > MaxBodySize {
		return nil, &modwiki.NetworkError{URL: rawURL, Err: fmt.Errorf("response exceeds %d bytes", MaxBodySize)}
	}

	return body, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// isTransientStatus reports whether a response status is worth retrying.
func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// isTransientError classifies transport errors. Certificate failures and
// unknown hosts are permanent; timeouts and dropped connections are not.
func isTransientError(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostnameErr      x509.HostnameError
		invalidCert      x509.CertificateInvalidError
		verifyErr        *tls.CertificateVerificationError
		recordErr        tls.RecordHeaderError
		dnsErr           *net.DNSError
	)
	switch {
	case errors.As(err, &unknownAuthority),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidCert),
		errors.As(err, &verifyErr),
		errors.As(err, &recordErr):
		return false
	case errors.As(err, &dnsErr):
		return !dnsErr.IsNotFound
	}
	return true
}

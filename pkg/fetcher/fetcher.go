package fetcher

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// RawPage is the body of one successful GET before any parsing.
type RawPage struct {
	URL         string
	Body        []byte
	StatusCode  int
	ContentType string
}

// Options tunes the resilience policy. Delays are configurable so tests can
// run with millisecond values.
type Options struct {
	Timeout       time.Duration
	PolitenessMin time.Duration // pre-request jitter window
	PolitenessMax time.Duration
	BackoffMin    time.Duration // single 429 backoff window
	BackoffMax    time.Duration
}

// DefaultOptions match production pacing: 2-5s politeness jitter before every
// request and a 10-25s wait before the one 429 retry.
func DefaultOptions() Options {
	return Options{
		Timeout:       15 * time.Second,
		PolitenessMin: 2 * time.Second,
		PolitenessMax: 5 * time.Second,
		BackoffMin:    10 * time.Second,
		BackoffMax:    25 * time.Second,
	}
}

// Fetcher performs single-page GETs with header fallback and 429 backoff.
// It holds no mutable crawl state; sessions share one Fetcher safely.
type Fetcher struct {
	client *http.Client
	opts   Options
	logger zerolog.Logger
}

// New builds a Fetcher around a cookie-keeping HTTP client.
func New(opts Options, logger zerolog.Logger) *Fetcher {
	jar, _ := cookiejar.New(nil)
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     30 * time.Second,
	}
	return &Fetcher{
		client: &http.Client{Transport: transport, Timeout: opts.Timeout, Jar: jar},
		opts:   opts,
		logger: logger,
	}
}

// Fetch performs one GET with the full resilience policy:
//
//  1. browser-like headers; on 429, one jittered backoff wait then one retry
//  2. on 400/403 from the header attempt, one bare retry with no custom headers
//  3. anything else outside [200,400) maps to a classified *Error
//
// An unconditional politeness delay precedes the first attempt.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*RawPage, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{Kind: KindInvalidURL, URL: pageURL, Err: err}
	}

	if err := f.politenessDelay(ctx); err != nil {
		return nil, &Error{Kind: KindTimeout, URL: pageURL, Err: err}
	}

	page, ferr := f.attempt(ctx, pageURL, true)
	if ferr == nil {
		return page, nil
	}

	switch {
	case ferr.Kind == KindRateLimited:
		f.logger.Warn().Str("url", pageURL).Msg("rate limited, backing off before retry")
		if err := f.backoffDelay(ctx); err != nil {
			return nil, ferr
		}
		page, retryErr := f.attempt(ctx, pageURL, true)
		if retryErr != nil {
			return nil, retryErr
		}
		return page, nil
	case ferr.StatusCode == 400 || ferr.StatusCode == 403:
		// Some origins block browser-like headers but allow bare requests.
		f.logger.Debug().Str("url", pageURL).Int("status", ferr.StatusCode).Msg("retrying with bare headers")
		page, retryErr := f.attempt(ctx, pageURL, false)
		if retryErr != nil {
			return nil, ferr
		}
		return page, nil
	default:
		return nil, ferr
	}
}

func (f *Fetcher) attempt(ctx context.Context, pageURL string, browserHeaders bool) (*RawPage, *Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: pageURL, Err: err}
	}
	if browserHeaders {
		req.Header.Set("User-Agent", randomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		req.Header.Set("Connection", "keep-alive")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyNetErr(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, newHTTPError(pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnclassifiedHTTP, URL: pageURL, Err: err}
	}
	return &RawPage{
		URL:         pageURL,
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (f *Fetcher) politenessDelay(ctx context.Context) error {
	return sleepJitter(ctx, f.opts.PolitenessMin, f.opts.PolitenessMax)
}

func (f *Fetcher) backoffDelay(ctx context.Context) error {
	return sleepJitter(ctx, f.opts.BackoffMin, f.opts.BackoffMax)
}

func sleepJitter(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func classifyNetErr(pageURL string, err error) *Error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindHostUnreachable, URL: pageURL, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: pageURL, Err: err}
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: pageURL, Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{Kind: KindConnectionRefused, URL: pageURL, Err: err}
	}
	return &Error{Kind: KindHostUnreachable, URL: pageURL, Err: err}
}

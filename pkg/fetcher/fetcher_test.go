package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Timeout:       2 * time.Second,
		PolitenessMin: time.Millisecond,
		PolitenessMax: 2 * time.Millisecond,
		BackoffMin:    time.Millisecond,
		BackoffMax:    2 * time.Millisecond,
	}
}

func newTestFetcher() *Fetcher {
	return New(testOptions(), zerolog.Nop())
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	page, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, string(page.Body), "ok")
	assert.Equal(t, server.URL, page.URL)
}

func TestFetchInvalidScheme(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "ftp scheme", url: "ftp://example.com"},
		{name: "no scheme", url: "example.com/page"},
		{name: "empty", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestFetcher().Fetch(context.Background(), tt.url)
			var ferr *Error
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, KindInvalidURL, ferr.Kind)
		})
	}
}

func TestFetchStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{status: 404, kind: KindNotFound},
		{status: 500, kind: KindServerError},
		{status: 503, kind: KindServerError},
		{status: 418, kind: KindUnclassifiedHTTP},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := newTestFetcher().Fetch(context.Background(), server.URL)
		var ferr *Error
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, tt.kind, ferr.Kind)
		assert.Equal(t, tt.status, ferr.StatusCode)
		assert.Contains(t, ferr.Error(), server.URL)
		server.Close()
	}
}

func TestFetchRateLimitedThenOK(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	page, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "recovered")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchRateLimitedTwice(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), server.URL)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindRateLimited, ferr.Kind)
	// one initial attempt plus exactly one retry
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchForbiddenRetriesWithBareHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Origin that blocks browser-like headers but allows bare requests.
		if r.Header.Get("Accept-Language") != "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("bare ok"))
	}))
	defer server.Close()

	page, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(page.Body), "bare ok")
}

func TestFetchForbiddenBothAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), server.URL)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	// The original classified error is surfaced, not the bare retry's.
	assert.Equal(t, KindForbidden, ferr.Kind)
}

func TestFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), url)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindConnectionRefused, ferr.Kind)
}

func TestFetchHostUnreachable(t *testing.T) {
	_, err := newTestFetcher().Fetch(context.Background(), "http://nonexistent.invalid/")
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindHostUnreachable, ferr.Kind)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	opts := testOptions()
	opts.Timeout = 50 * time.Millisecond
	f := New(opts, zerolog.Nop())

	_, err := f.Fetch(context.Background(), server.URL)
	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, KindTimeout, ferr.Kind)
}

func TestFetchContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher().Fetch(ctx, "http://example.com")
	require.Error(t, err)
}

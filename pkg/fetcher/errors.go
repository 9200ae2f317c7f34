package fetcher

import "fmt"

// Kind classifies a fetch failure. Root-page kinds propagate to the caller
// verbatim; additional-page kinds are logged and the URL is skipped.
type Kind string

const (
	KindInvalidURL        Kind = "invalid_url"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindRateLimited       Kind = "rate_limited"
	KindServerError       Kind = "server_error"
	KindUnclassifiedHTTP  Kind = "unclassified_http"
	KindHostUnreachable   Kind = "host_unreachable"
	KindTimeout           Kind = "timeout"
	KindConnectionRefused Kind = "connection_refused"
	KindParseFailure      Kind = "parse_failure"
)

// Error is a classified fetch failure for a single URL.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newHTTPError(url string, status int) *Error {
	kind := KindUnclassifiedHTTP
	switch {
	case status == 404:
		kind = KindNotFound
	case status == 403:
		kind = KindForbidden
	case status == 429:
		kind = KindRateLimited
	case status >= 500:
		kind = KindServerError
	}
	return &Error{Kind: kind, URL: url, StatusCode: status}
}

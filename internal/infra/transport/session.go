package transport

import (
	"net/http"
	"time"
)

// RequestTimeout bounds every outbound request.
const RequestTimeout = 10 * time.Second

// Session performs a single HTTP round trip. *http.Client satisfies it in
// production; tests substitute in-memory doubles.
type Session interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewSession builds the production session.
func NewSession() *http.Client {
	return &http.Client{Timeout: RequestTimeout}
}

// CookieValue returns the first response cookie matching name, per RFC 6265
// first-match semantics.
func CookieValue(resp *http.Response, name string) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

package fetch

import (
	"net/http"
	"net/url"
)

// browserTransport wraps an http.RoundTripper and adds the header bundle of a
// desktop browser. The upstream CDN answers 403 to requests without it.
type browserTransport struct {
	http.RoundTripper
	UserAgent      string
	AcceptLanguage string
}

const acceptAny = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,image/*,*/*;q=0.8"

// RoundTrip executes a single HTTP transaction, adding the browser headers.
func (t *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	if clonedReq.Header.Get("Accept") == "" {
		clonedReq.Header.Set("Accept", acceptAny)
	}
	if t.AcceptLanguage != "" {
		clonedReq.Header.Set("Accept-Language", t.AcceptLanguage)
	}
	if clonedReq.Header.Get("Referer") == "" {
		clonedReq.Header.Set("Referer", origin(req.URL))
	}
	return t.RoundTripper.RoundTrip(clonedReq)
}

// origin returns scheme://host/ of u.
func origin(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
}

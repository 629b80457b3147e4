package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
)

func newTestClient() *Client {
	cfg := config.Default()
	cfg.Source.UserAgent = "TestBrowser/1.0"
	cfg.Source.AcceptLanguage = "en-GB"
	return New(cfg)
}

func TestFetch_SendsBrowserHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		// Mimic the CDN: reject requests that do not look like a browser.
		if r.Header.Get("User-Agent") == "" || r.Header.Get("Referer") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpegdata")
	}))
	defer server.Close()

	resp, err := newTestClient().Fetch(context.Background(), server.URL+"/n/abc/photo.jpg")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", resp.ContentType)
	assert.Equal(t, []byte("jpegdata"), resp.Body)
	assert.Equal(t, "TestBrowser/1.0", got.Get("User-Agent"))
	assert.Equal(t, "en-GB", got.Get("Accept-Language"))
	assert.Contains(t, got.Get("Accept"), "text/html")
	assert.Equal(t, server.URL+"/", got.Get("Referer"))
}

func TestFetch_HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient().Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestFetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient().Fetch(context.Background(), url)
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, url, netErr.URL)
	assert.NotNil(t, netErr.Unwrap())
}

func TestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://i.natgeofe.com/n/uuid/photo.jpg?w=10", nil)
	assert.Equal(t, "https://i.natgeofe.com/", origin(req.URL))
}

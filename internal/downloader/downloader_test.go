package downloader_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/downloader"
	"github.com/vrsandeep/natgeo-wallpapers/internal/fetch"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// testConfig points every URL at server and the photo tree at a temp dir.
func testConfig(t *testing.T, server *httptest.Server) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.PhotoRoot = t.TempDir()
	cfg.Source.PageURL = server.URL + "/photo-of-the-day"
	cfg.Source.ImageCDN = server.URL + "/n/"
	cfg.Source.SiteDomain = ""
	cfg.Collection.RequestInterval = 0
	return cfg
}

func setupPhotoServer(imageHits *atomic.Int32) *httptest.Server {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/photo-of-the-day", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head>
<meta property="og:image" content="%s/n/uuid/snow-fox.jpg">
<meta property="og:title" content="Arctic Fox: Winter Coat">
</head></html>`, server.URL)
	})
	mux.HandleFunc("/n/uuid/snow-fox.jpg", func(w http.ResponseWriter, r *http.Request) {
		imageHits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg; charset=binary")
		fmt.Fprint(w, "fake-jpeg-bytes")
	})
	mux.HandleFunc("/n/uuid/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html></html>")
	})

	server = httptest.NewServer(mux)
	return server
}

func TestPhotoOfTheDay(t *testing.T) {
	var hits atomic.Int32
	server := setupPhotoServer(&hits)
	defer server.Close()

	cfg := testConfig(t, server)
	d := downloader.New(cfg, fetch.New(cfg))
	now := time.Date(2024, time.March, 7, 9, 30, 0, 0, time.Local)

	photo, err := d.PhotoOfTheDay(context.Background(), now)
	require.NoError(t, err)

	dateDir := filepath.Join(cfg.PhotoRoot, "07-03-2024")
	assert.Equal(t, filepath.Join(dateDir, "Arctic_Fox_Winter_Coat.jpg"), photo.Path)
	assert.Equal(t, models.ExtJPG, photo.Extension)
	assert.Equal(t, "Arctic Fox: Winter Coat", photo.Title)
	assert.False(t, photo.Existed)

	data, err := os.ReadFile(photo.Path)
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(data))

	logData, err := os.ReadFile(filepath.Join(dateDir, "Arctic_Fox_Winter_Coat.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "started: Arctic Fox: Winter Coat")
	assert.Contains(t, string(logData), "outcome: downloaded")
	assert.Contains(t, string(logData), "finished: ok")

	// No temp files are left behind.
	entries, err := os.ReadDir(dateDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".part"), e.Name())
	}

	t.Run("Second run reuses the existing file", func(t *testing.T) {
		again, err := d.PhotoOfTheDay(context.Background(), now)
		require.NoError(t, err)
		assert.True(t, again.Existed)
		assert.Equal(t, photo.Path, again.Path)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestPhotoOfTheDay_PageFailureIsLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testConfig(t, server)
	d := downloader.New(cfg, fetch.New(cfg))
	now := time.Date(2024, time.March, 7, 9, 30, 0, 0, time.Local)

	_, err := d.PhotoOfTheDay(context.Background(), now)
	require.Error(t, err)
	var statusErr *fetch.HTTPStatusError
	assert.ErrorAs(t, err, &statusErr)

	logData, err := os.ReadFile(filepath.Join(cfg.PhotoRoot, "07-03-2024", "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Failed to fetch photo information")
	assert.Contains(t, string(logData), "HTTP 403")
}

func TestDownload_UnsupportedContentTypeIsLoggedBeforeReturning(t *testing.T) {
	var hits atomic.Int32
	server := setupPhotoServer(&hits)
	defer server.Close()

	cfg := testConfig(t, server)
	d := downloader.New(cfg, fetch.New(cfg))
	dest := filepath.Join(cfg.PhotoRoot, "manual")

	_, err := d.Download(context.Background(), downloader.Request{
		URL:     server.URL + "/n/uuid/page.html",
		DestDir: dest,
		Title:   "Not an image",
	})
	require.ErrorIs(t, err, downloader.ErrUnsupportedContentType)

	logData, err := os.ReadFile(filepath.Join(dest, "Not_an_image.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "outcome: failed")
	assert.Contains(t, string(logData), "unsupported content type")

	_, statErr := os.Stat(filepath.Join(dest, "Not_an_image.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

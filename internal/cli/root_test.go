package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree with config and logs isolated in temp dirs.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("NATGEO_PHOTO_ROOT", filepath.Join(root, "photos"))
	t.Setenv("NATGEO_LOG_DIR", filepath.Join(root, "logs"))

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), root, err
}

func TestDownloadCommand(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/photo-of-the-day", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head>
<meta property="og:image" content="%s/n/uuid/heron.jpg">
<meta property="og:title" content="Heron at Dawn">
</head></html>`, server.URL)
	})
	mux.HandleFunc("/n/uuid/heron.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, "jpeg")
	})
	t.Setenv("NATGEO_SOURCE_PAGE_URL", server.URL+"/photo-of-the-day")

	out, root, err := runCLI(t, "download")
	require.NoError(t, err)
	assert.Contains(t, out, "Heron at Dawn")

	files, err := filepath.Glob(filepath.Join(root, "photos", "*", "Heron_at_Dawn.jpg"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	logs, err := filepath.Glob(filepath.Join(root, "logs", "*.log"))
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestDownloadCommandHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()
	t.Setenv("NATGEO_SOURCE_PAGE_URL", server.URL)

	_, _, err := runCLI(t)
	require.Error(t, err)
	assert.Equal(t, ExitNetwork, ExitCode(err))
}

func TestInvalidInput(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{"set", "--mode", "diagonal"}},
		{"bad schedule time", []string{"install", "--time", "25:00"}},
		{"bad schedule interval", []string{"install", "--time", "soon"}},
		{"foreign collection", []string{"download-collection", "--url", "https://example.com/best-pod-photos"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidInput, ExitCode(err))
		})
	}
}

func TestSetWithoutPhotos(t *testing.T) {
	_, _, err := runCLI(t, "set", "--path", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCode(err))
}

func TestShutdownSignals(t *testing.T) {
	assert.Contains(t, ShutdownSignals, os.Signal(syscall.SIGTERM))
	assert.Contains(t, ShutdownSignals, os.Interrupt)
	// SIGKILL cannot be caught.
	assert.NotContains(t, ShutdownSignals, os.Kill)
}

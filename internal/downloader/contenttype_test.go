package downloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		header   string
		expected models.Extension
	}{
		{"image/jpeg", models.ExtJPG},
		{"image/jpeg; charset=utf-8", models.ExtJPG},
		{"IMAGE/JPEG", models.ExtJPG},
		{"image/jpg", models.ExtJPG},
		{"image/pjpeg", models.ExtJPG},
		{"image/png", models.ExtPNG},
		{"image/gif;", models.ExtGIF},
		{" image/png ; q=1", models.ExtPNG},
	}
	for _, tc := range testCases {
		ext, err := Classify(tc.header)
		require.NoError(t, err, tc.header)
		assert.Equal(t, tc.expected, ext, tc.header)
	}
}

func TestClassify_Unsupported(t *testing.T) {
	for _, header := range []string{"", "text/html; charset=utf-8", "image/webp", "application/octet-stream"} {
		_, err := Classify(header)
		assert.ErrorIs(t, err, ErrUnsupportedContentType, header)
	}
}

package downloader

import (
	"fmt"
	"mime"
	"strings"

	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

// Classify maps a Content-Type header to the extension the image is stored
// under. Parameters such as charset are ignored.
func Classify(contentType string) (models.Extension, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Servers send things like "image/jpeg;" that ParseMediaType rejects.
		mediaType, _, _ = strings.Cut(contentType, ";")
	}

	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return models.ExtJPG, nil
	case "image/png":
		return models.ExtPNG, nil
	case "image/gif":
		return models.ExtGIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
}

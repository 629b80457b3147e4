package downloader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedContentType is returned when a response is not a jpg, png or gif image.
	ErrUnsupportedContentType = errors.New("unsupported content type")
	// ErrInvalidCollectionURL is returned for collection URLs outside the configured site.
	ErrInvalidCollectionURL = errors.New("invalid collection URL")
	// ErrNothingDownloaded is returned when a collection run stores no photo at all.
	ErrNothingDownloaded = errors.New("no photo of the collection could be stored")
)

// FilesystemError wraps a failure to create, write or rename a file in the photo tree.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

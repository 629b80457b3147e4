package scrape

import "errors"

var (
	// ErrMissingImageTag is returned when a page has no og:image meta tag.
	ErrMissingImageTag = errors.New("page has no og:image meta tag")
	// ErrMissingTitleTag is returned when a page has no og:title meta tag.
	ErrMissingTitleTag = errors.New("page has no og:title meta tag")
	// ErrNoImagesFound is returned when a collection page yields no gallery images.
	ErrNoImagesFound = errors.New("no gallery images found on page")
)

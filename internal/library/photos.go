// Package library finds the wallpaper candidates stored in the photo tree.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
)

var (
	// ErrNoPhotos is returned when a path holds no supported image.
	ErrNoPhotos = errors.New("no photos found")
	// ErrUnsupportedImage is returned when a single file is not a jpg, jpeg, png or gif.
	ErrUnsupportedImage = errors.New("not a supported image file")
)

// IsImage reports whether path has one of the extensions the wallpaper
// tools accept.
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// FindPhotos returns the candidate images at path. A file yields itself; a
// directory is searched recursively. The result is sorted with Less.
func FindPhotos(path string) ([]string, error) {
	path = config.ExpandTilde(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPhotos, err)
	}

	if !info.IsDir() {
		if !IsImage(path) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, path)
		}
		return []string{path}, nil
	}

	var photos []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Skip in-flight downloads and other dotfiles.
		if strings.HasPrefix(d.Name(), ".") && p != path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsImage(p) {
			photos = append(photos, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPhotos, path)
	}

	sort.SliceStable(photos, func(i, j int) bool {
		return Less(photos[i], photos[j])
	})
	return photos, nil
}

// Less is the deterministic candidate order: photos in dd-mm-YYYY
// directories first, newest date first; then everything else (collections)
// in natural order, so collection entries follow their NN- prefix.
func Less(a, b string) bool {
	da, aDated := photoDate(a)
	db, bDated := photoDate(b)
	switch {
	case aDated && bDated:
		if !da.Equal(db) {
			return da.After(db)
		}
	case aDated != bDated:
		return aDated
	}
	return naturalLess(a, b)
}

func photoDate(path string) (time.Time, bool) {
	t, err := time.Parse(models.DateLayout, filepath.Base(filepath.Dir(path)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

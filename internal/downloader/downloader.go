// Package downloader stores photos from the provider into the local photo tree.
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/fetch"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
	"github.com/vrsandeep/natgeo-wallpapers/internal/scrape"
)

// Fetcher retrieves a URL. *fetch.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}

// Request describes one image to store.
type Request struct {
	URL     string
	DestDir string
	Name    string // filename stem; derived from Title when empty
	Title   string
	Date    time.Time
	LogPath string // defaults to DestDir/Name.log
}

// Downloader fetches images and writes them under the photo root.
type Downloader struct {
	cfg     *config.Config
	fetcher Fetcher
	parser  *scrape.Parser
	now     func() time.Time
}

// New creates a Downloader.
func New(cfg *config.Config, fetcher Fetcher) *Downloader {
	return &Downloader{
		cfg:     cfg,
		fetcher: fetcher,
		parser:  scrape.NewParser(cfg),
		now:     time.Now,
	}
}

// Download stores the image at req.URL as DestDir/Name.<ext>. When a file
// with that stem and any known extension already exists nothing is fetched
// and the existing file is returned.
func (d *Downloader) Download(ctx context.Context, req Request) (*models.DownloadedPhoto, error) {
	if req.Name == "" {
		req.Name = Sanitize(req.Title)
	}
	if req.LogPath == "" {
		req.LogPath = filepath.Join(req.DestDir, req.Name+".log")
	}
	if err := os.MkdirAll(req.DestDir, 0755); err != nil {
		return nil, &FilesystemError{Op: "create directory", Path: req.DestDir, Err: err}
	}

	entry := newRunLog(req.LogPath, d.now)
	defer entry.flush()
	entry.add("started", "%s", req.Title)
	entry.add("url", "%s", req.URL)

	if existing, ok := findExisting(req.DestDir, req.Name); ok {
		existing.Date = req.Date
		existing.Title = req.Title
		entry.add("outcome", "exists")
		entry.add("path", "%s", existing.Path)
		entry.add("finished", "ok")
		return existing, nil
	}

	fail := func(err error) (*models.DownloadedPhoto, error) {
		entry.add("outcome", "failed")
		entry.add("error", "%v", err)
		entry.add("finished", "error")
		entry.flush()
		return nil, err
	}

	resp, err := d.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return fail(err)
	}
	ext, err := Classify(resp.ContentType)
	if err != nil {
		return fail(err)
	}

	path := filepath.Join(req.DestDir, req.Name+"."+string(ext))
	if err := writeAtomic(path, resp.Body); err != nil {
		return fail(err)
	}

	photo := &models.DownloadedPhoto{
		Path:      path,
		Date:      req.Date,
		Title:     req.Title,
		Extension: ext,
		Size:      int64(len(resp.Body)),
	}
	entry.add("outcome", "downloaded")
	entry.add("path", "%s (%d bytes)", path, photo.Size)
	entry.add("finished", "ok")
	return photo, nil
}

func findExisting(dir, name string) (*models.DownloadedPhoto, bool) {
	for _, ext := range models.Extensions {
		path := filepath.Join(dir, name+"."+string(ext))
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return &models.DownloadedPhoto{
			Path:      path,
			Extension: ext,
			Size:      info.Size(),
			Existed:   true,
		}, true
	}
	return nil, false
}

// writeAtomic writes data to a temporary file in the target directory and
// renames it into place, so a partial image is never visible under path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return &FilesystemError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err != nil {
		os.Remove(tmpName)
		return &FilesystemError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &FilesystemError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// PhotoOfTheDay downloads today's photo into <photo_root>/<dd-mm-YYYY>/.
// Failures to read the page are also recorded in that directory's error.log.
func (d *Downloader) PhotoOfTheDay(ctx context.Context, now time.Time) (*models.DownloadedPhoto, error) {
	date := now.Format(models.DateLayout)
	dir := filepath.Join(d.cfg.PhotoRoot, date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &FilesystemError{Op: "create directory", Path: dir, Err: err}
	}

	meta, err := d.photoInfo(ctx)
	if err != nil {
		writeLog(filepath.Join(dir, "error.log"), d.now(), "Failed to fetch photo information: %v", err)
		return nil, err
	}

	return d.Download(ctx, Request{
		URL:     meta.ImageURL,
		DestDir: dir,
		Name:    Sanitize(meta.Title),
		Title:   meta.Title,
		Date:    now,
	})
}

func (d *Downloader) photoInfo(ctx context.Context) (*models.PhotoMetadata, error) {
	resp, err := d.fetcher.Fetch(ctx, d.cfg.Source.PageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching photo of the day page: %w", err)
	}
	meta, err := d.parser.ParseSingle(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", d.cfg.Source.PageURL, err)
	}
	return meta, nil
}


package downloader

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
	"github.com/vrsandeep/natgeo-wallpapers/internal/scrape"
	"golang.org/x/time/rate"
)

const collectionLogName = "collection.log"

// CollectionAcquirer downloads every gallery photo of a "best of" article.
type CollectionAcquirer struct {
	cfg        *config.Config
	fetcher    Fetcher
	parser     *scrape.Parser
	downloader *Downloader
	limiter    *rate.Limiter
}

// NewCollectionAcquirer creates a CollectionAcquirer that spaces its
// requests collection.request_interval apart.
func NewCollectionAcquirer(cfg *config.Config, fetcher Fetcher) *CollectionAcquirer {
	limit := rate.Inf
	if cfg.Collection.RequestInterval > 0 {
		limit = rate.Every(cfg.Collection.RequestInterval)
	}
	return &CollectionAcquirer{
		cfg:        cfg,
		fetcher:    fetcher,
		parser:     scrape.NewParser(cfg),
		downloader: New(cfg, fetcher),
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Acquire downloads the collection at rawURL into
// <photo_root>/collections/<slug>/, one NN-<name> file per photo in page
// order. Individual failures are logged and skipped; the returned error is
// ErrNothingDownloaded only when no photo at all ended up on disk.
func (a *CollectionAcquirer) Acquire(ctx context.Context, rawURL string) (*models.Collection, error) {
	if err := a.validate(rawURL); err != nil {
		return nil, err
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching collection page: %w", err)
	}
	urls, err := a.parser.ParseCollection(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}

	slug := scrape.CollectionSlug(rawURL)
	coll := &models.Collection{
		Name:  slug,
		Title: a.parser.CollectionTitle(resp.Body),
		Dir:   filepath.Join(a.cfg.CollectionsDir(), slug),
	}
	if err := os.MkdirAll(coll.Dir, 0755); err != nil {
		return nil, &FilesystemError{Op: "create directory", Path: coll.Dir, Err: err}
	}

	logPath := filepath.Join(coll.Dir, collectionLogName)
	heading := coll.Title
	if heading == "" {
		heading = slug
	}
	writeLog(logPath, time.Now(), "Starting download of collection: %s", heading)
	writeLog(logPath, time.Now(), "Total photos: %d", len(urls))
	log.Printf("Collection %q: %d photos found", slug, len(urls))

	downloaded := 0
	for i, imageURL := range urls {
		if err := a.limiter.Wait(ctx); err != nil {
			return coll, err
		}

		stem := scrape.FilenameStem(imageURL)
		photo, err := a.downloader.Download(ctx, Request{
			URL:     imageURL,
			DestDir: coll.Dir,
			Name:    orderedName(i+1, stem),
			Title:   stem,
			LogPath: logPath,
		})
		if err != nil {
			writeLog(logPath, time.Now(), "Failed to download %s: %v", imageURL, err)
			coll.Failed = append(coll.Failed, models.FailedItem{Ordinal: i + 1, URL: imageURL, Reason: err.Error()})
			continue
		}

		if minBytes := a.cfg.Collection.MinPhotoBytes; !photo.Existed && minBytes > 0 && photo.Size < minBytes {
			if err := os.Remove(photo.Path); err != nil {
				log.Printf("Warning: could not remove thumbnail %s: %v", photo.Path, err)
			}
			writeLog(logPath, time.Now(), "Removed %s (too small: %d bytes, min: %d bytes)",
				filepath.Base(photo.Path), photo.Size, minBytes)
			coll.Skipped++
			continue
		}
		if !photo.Existed {
			downloaded++
		}
		coll.Entries = append(coll.Entries, *photo)
	}

	writeLog(logPath, time.Now(), "Collection download complete: %d downloaded, %d already present, %d skipped, %d failed",
		downloaded, len(coll.Entries)-downloaded, coll.Skipped, len(coll.Failed))

	if len(coll.Entries) == 0 {
		return coll, fmt.Errorf("%s: %w", rawURL, ErrNothingDownloaded)
	}
	return coll, nil
}

func (a *CollectionAcquirer) validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidCollectionURL, rawURL)
	}
	domain := strings.ToLower(a.cfg.Source.SiteDomain)
	if domain == "" {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return fmt.Errorf("%w: %q is not on %s", ErrInvalidCollectionURL, rawURL, domain)
	}
	return nil
}
